package dom

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is a single element in a parsed XML tree.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	text     strings.Builder
}

// Document is the root of a parsed XML tree.
type Document struct {
	Root *Node
}

// Scan reads the full token stream from r and reports the first
// well-formedness error. No tree is built and no memory proportional to
// the document size is retained.
func Scan(r io.Reader) error {
	decoder := xml.NewDecoder(r)
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Parse builds a full element tree from r.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				node.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			} else if root == nil {
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return &Document{Root: root}, nil
}

// Text returns the trimmed character data directly inside the node.
func (n *Node) Text() string {
	return strings.TrimSpace(n.text.String())
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Child returns the first direct child element with the given name,
// or nil if there is none.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the first direct child with the
// given name, or the empty string if the child does not exist.
func (n *Node) ChildText(name string) string {
	if c := n.Child(name); c != nil {
		return c.Text()
	}
	return ""
}

// Descendants returns every element at or below the node with the
// given name, in document order.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.Name == name {
			out = append(out, node)
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// ElementsByTagName returns every element in the document with the
// given name, in document order.
func (d *Document) ElementsByTagName(name string) []*Node {
	if d.Root == nil {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Name == name {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.Root)
	return out
}

// ErrorLine extracts the line number from an XML decoder error, if the
// error reports one.
func ErrorLine(err error) (int, bool) {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return syn.Line, true
	}
	return 0, false
}

// ErrorContext returns a short excerpt of the content around the given
// line to aid debugging, with the offending line marked. It returns the
// empty string when the line cannot be located in r.
func ErrorContext(r io.Reader, line int) string {
	if line < 1 {
		return ""
	}

	const contextLines = 2

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b strings.Builder
	current := 0
	found := false
	for scanner.Scan() {
		current++
		if current < line-contextLines {
			continue
		}
		if current > line+contextLines {
			break
		}
		marker := "  "
		if current == line {
			marker = "> "
			found = true
		}
		text := scanner.Text()
		if len(text) > 120 {
			text = text[:120] + "…"
		}
		fmt.Fprintf(&b, "%s%d: %s\n", marker, current, text)
	}

	if !found {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}
