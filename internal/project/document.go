package project

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"project-preview/internal/dom"
	"project-preview/internal/logging"
)

// ReadFlag controls how much of a project file Open materializes.
// Suppressing layer resolution and style/layout/3D loading turns a
// potentially slow full open into a cheap parse of the document tree.
type ReadFlag uint8

const (
	// DontResolveLayers skips resolving layer datasources on open.
	DontResolveLayers ReadFlag = 1 << iota
	// DontLoadLayouts skips reading print layouts.
	DontLoadLayouts
	// DontLoad3DViews skips reading 3D view definitions.
	DontLoad3DViews
	// DontLoadStyles skips reading the project style collection.
	DontLoadStyles
	// ForceReadOnlyLayers opens layers read-only so a render pass can
	// never mutate a file that is being processed elsewhere.
	ForceReadOnlyLayers
)

// ReadHook is invoked synchronously during Open, after the raw document
// tree has been parsed and before any higher-level resolution occurs.
// Hooks are one-shot: they run exactly once per Open.
type ReadHook func(tree *dom.Document)

// Document is the in-memory representation of an opened project file.
// It is owned exclusively by the pipeline stage that opened it and must
// be released with Close before that stage returns.
type Document struct {
	path  string
	flags ReadFlag

	tree       *dom.Document
	title      string
	crsAuthID  string
	layerOrder []string
	visibility map[string]bool
	layouts    []string
	props      map[string]map[string]*dom.Node

	hooks  []ReadHook
	closed bool
}

// New returns an empty document. Register any ReadHooks before calling
// Read.
func New() *Document {
	return &Document{}
}

// OnReadProject registers a hook to run during the next Read.
func (d *Document) OnReadProject(h ReadHook) {
	d.hooks = append(d.hooks, h)
}

// Open is shorthand for New followed by Read.
func Open(path string, flags ReadFlag) (*Document, error) {
	d := New()
	if err := d.Read(path, flags); err != nil {
		return nil, err
	}
	return d, nil
}

// Read parses the project file at path into the document. Registered
// hooks run synchronously once the tree is available, then the
// higher-level fields (title, CRS, layer order, custom properties) are
// populated.
func (d *Document) Read(path string, flags ReadFlag) error {
	rc, err := openProjectXML(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	tree, err := dom.Parse(rc)
	if err != nil {
		return fmt.Errorf("failed to parse project document: %w", err)
	}

	d.path = path
	d.flags = flags
	d.tree = tree
	d.closed = false

	d.title = tree.Root.ChildText("title")
	d.crsAuthID = readProjectCRS(tree)
	d.props = readProperties(tree)
	d.layerOrder, d.visibility = readLayerOrder(tree)

	if flags&DontLoadLayouts == 0 {
		d.layouts = readLayoutNames(tree)
	}

	// One-shot hooks observe the raw tree synchronously, before any
	// datasource resolution happens.
	hooks := d.hooks
	d.hooks = nil
	for _, h := range hooks {
		h(tree)
	}

	logging.Debug("Opened project %s (flags=%08b, %d layers in order)", path, flags, len(d.layerOrder))
	return nil
}

// Close releases the parsed tree. It is idempotent and must be called
// explicitly by the owning stage: the shared engine context can be torn
// down by the host process between stages, so teardown order cannot be
// left to the garbage collector.
func (d *Document) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.tree = nil
	d.props = nil
	logging.Debug("Closed project document %s", d.path)
}

// Path returns the filesystem path the document was read from.
func (d *Document) Path() string { return d.path }

// Flags returns the read flags the document was opened with.
func (d *Document) Flags() ReadFlag { return d.flags }

// Title returns the project title.
func (d *Document) Title() string { return d.title }

// CRS returns the authority identifier of the project coordinate
// reference system, e.g. "EPSG:4326".
func (d *Document) CRS() string { return d.crsAuthID }

// Tree returns the parsed document tree, or nil after Close.
func (d *Document) Tree() *dom.Document { return d.tree }

// LayerOrder returns the layer ids in stored render order
// (back-to-front).
func (d *Document) LayerOrder() []string { return d.layerOrder }

// LayerVisible reports whether the layer is checked in the layer tree.
// Layers absent from the tree default to visible.
func (d *Document) LayerVisible(id string) bool {
	v, ok := d.visibility[id]
	if !ok {
		return true
	}
	return v
}

// LayoutNames returns the print layout names, when layouts were loaded.
func (d *Document) LayoutNames() []string { return d.layouts }

// ReadNumEntry returns the integer custom property under scope/key, or
// def when the property is absent or not a number.
func (d *Document) ReadNumEntry(scope, key string, def int) (int, bool) {
	node := d.property(scope, key)
	if node == nil {
		return def, false
	}
	v, err := strconv.Atoi(node.Text())
	if err != nil {
		return def, false
	}
	return v, true
}

// ReadListEntry returns the string-list custom property under
// scope/key, or def when the property is absent.
func (d *Document) ReadListEntry(scope, key string, def []string) ([]string, bool) {
	node := d.property(scope, key)
	if node == nil {
		return def, false
	}
	var values []string
	for _, c := range node.Children {
		if c.Name == "value" {
			values = append(values, c.Text())
		}
	}
	if values == nil {
		// A single-valued property stores its value as text.
		if t := node.Text(); t != "" {
			values = []string{t}
		}
	}
	if values == nil {
		return def, false
	}
	return values, true
}

func (d *Document) property(scope, key string) *dom.Node {
	if d.props == nil {
		return nil
	}
	key = strings.TrimPrefix(key, "/")
	scoped, ok := d.props[scope]
	if !ok {
		return nil
	}
	return scoped[key]
}

// openProjectXML returns a reader over the project XML content,
// unwrapping the zip container when necessary.
func openProjectXML(path string) (io.ReadCloser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".qgs":
		return os.Open(path)
	case ".qgz":
		return openArchivedProject(path)
	default:
		return nil, &InvalidExtensionError{Path: path, Extension: ext}
	}
}

// openArchivedProject opens the first .qgs member of a .qgz archive.
type archivedProject struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (a *archivedProject) Close() error {
	a.ReadCloser.Close()
	return a.archive.Close()
}

func openArchivedProject(path string) (io.ReadCloser, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project archive: %w", err)
	}

	for _, f := range archive.File {
		if strings.EqualFold(filepath.Ext(f.Name), ".qgs") {
			rc, err := f.Open()
			if err != nil {
				archive.Close()
				return nil, fmt.Errorf("failed to open archived project document: %w", err)
			}
			return &archivedProject{ReadCloser: rc, archive: archive}, nil
		}
	}

	archive.Close()
	return nil, fmt.Errorf("project archive %s contains no project document", path)
}

func readProjectCRS(tree *dom.Document) string {
	crs := tree.Root.Child("projectCrs")
	if crs == nil {
		return ""
	}
	srs := crs.Child("spatialrefsys")
	if srs == nil {
		return ""
	}
	return srs.ChildText("authid")
}

// readProperties flattens the <properties> section into scope → key →
// value nodes, matching the scope/key addressing of ReadNumEntry and
// ReadListEntry.
func readProperties(tree *dom.Document) map[string]map[string]*dom.Node {
	props := make(map[string]map[string]*dom.Node)
	section := tree.Root.Child("properties")
	if section == nil {
		return props
	}
	for _, scope := range section.Children {
		entries := make(map[string]*dom.Node, len(scope.Children))
		for _, entry := range scope.Children {
			entries[entry.Name] = entry
		}
		props[scope.Name] = entries
	}
	return props
}

// readLayerOrder returns layer ids in render order (the custom layer
// order when one is enabled, the layer tree order otherwise) together
// with per-layer visibility from the tree checkboxes.
func readLayerOrder(tree *dom.Document) ([]string, map[string]bool) {
	group := tree.Root.Child("layer-tree-group")
	if group == nil {
		return nil, nil
	}

	visibility := make(map[string]bool)
	var treeOrder []string
	var walk func(*dom.Node)
	walk = func(n *dom.Node) {
		for _, c := range n.Children {
			switch c.Name {
			case "layer-tree-layer":
				if id, ok := c.Attr("id"); ok {
					treeOrder = append(treeOrder, id)
					checked, _ := c.Attr("checked")
					visibility[id] = checked != "Qt::Unchecked"
				}
			case "layer-tree-group":
				walk(c)
			}
		}
	}
	walk(group)

	if custom := group.Child("custom-order"); custom != nil {
		if enabled, _ := custom.Attr("enabled"); enabled == "1" {
			var order []string
			for _, item := range custom.Children {
				if item.Name == "item" {
					order = append(order, item.Text())
				}
			}
			if len(order) > 0 {
				return order, visibility
			}
		}
	}

	return treeOrder, visibility
}

func readLayoutNames(tree *dom.Document) []string {
	section := tree.Root.Child("Layouts")
	if section == nil {
		return nil
	}
	var names []string
	for _, layout := range section.Children {
		if name, ok := layout.Attr("name"); ok {
			names = append(names, name)
		}
	}
	return names
}
