package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LayerData describes one configured layer: enough identity to list it
// and enough datasource detail to re-resolve it later.
type LayerData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Provider   string `json:"provider"`
	Datasource string `json:"datasource"`
	Valid      bool   `json:"is_valid"`
	Status     string `json:"status"`
}

// Known datasource providers. Anything else is reported as an invalid
// layer rather than an error: one broken layer must never abort
// processing of the whole project.
var fileBasedProviders = map[string]bool{
	"ogr":           true,
	"gdal":          true,
	"delimitedtext": true,
}

// InspectLayers walks the document's layer tree in stored order and
// describes every layer. Broken layers are recorded with Valid=false
// and a status reason; the walk itself only fails when the document
// tree is gone.
func InspectLayers(doc *Document) ([]LayerData, error) {
	tree := doc.Tree()
	if tree == nil {
		return nil, fmt.Errorf("project document is closed")
	}

	byID := make(map[string]*LayerData)
	section := tree.Root.Child("projectlayers")
	if section != nil {
		for _, node := range section.Children {
			if node.Name != "maplayer" {
				continue
			}
			layer := LayerData{
				ID:         node.ChildText("id"),
				Name:       node.ChildText("layername"),
				Datasource: node.ChildText("datasource"),
			}
			if t, ok := node.Attr("type"); ok {
				layer.Type = t
			}
			if p := node.Child("provider"); p != nil {
				layer.Provider = p.Text()
			}
			layer.Valid, layer.Status = checkLayerSource(doc, &layer)
			byID[layer.ID] = &layer
		}
	}

	// Stored order first, then any layer the tree does not order.
	var layers []LayerData
	seen := make(map[string]bool)
	for _, id := range doc.LayerOrder() {
		if layer, ok := byID[id]; ok {
			layers = append(layers, *layer)
			seen[id] = true
			continue
		}
		// Ordered id without a definition: report it, don't fail.
		layers = append(layers, LayerData{
			ID:     id,
			Valid:  false,
			Status: "layer definition missing",
		})
		seen[id] = true
	}
	if section != nil {
		for _, node := range section.Children {
			if node.Name != "maplayer" {
				continue
			}
			id := node.ChildText("id")
			if !seen[id] {
				layers = append(layers, *byID[id])
				seen[id] = true
			}
		}
	}

	return layers, nil
}

// checkLayerSource classifies a layer's validity without materializing
// a datasource connection: file-based providers only get an existence
// check on the resolved path.
func checkLayerSource(doc *Document, layer *LayerData) (bool, string) {
	switch {
	case layer.ID == "":
		return false, "layer has no id"
	case layer.Provider == "":
		return false, "layer has no provider"
	case layer.Provider == "memory":
		return true, "ok"
	case fileBasedProviders[layer.Provider]:
		path := ResolveDatasourcePath(filepath.Dir(doc.Path()), layer.Datasource)
		if path == "" {
			return false, "layer has no datasource"
		}
		if _, err := os.Stat(path); err != nil {
			return false, "datasource file missing"
		}
		return true, "ok"
	default:
		// Network or otherwise unresolvable providers are reported as
		// configured but unverified.
		return true, "not checked"
	}
}

// ResolveDatasourcePath extracts the filesystem path from a datasource
// descriptor and resolves it against the project directory. Provider
// options after '|' (ogr) and file:// schemes with query options
// (delimitedtext) are stripped.
func ResolveDatasourcePath(projectDir, datasource string) string {
	source := datasource
	if i := strings.Index(source, "|"); i >= 0 {
		source = source[:i]
	}
	source = strings.TrimPrefix(source, "file://")
	if i := strings.Index(source, "?"); i >= 0 {
		source = source[:i]
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	if filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(projectDir, source)
}

// LayersDataToString renders a human-readable per-layer check table for
// the post-extraction log report.
func LayersDataToString(layers map[string]LayerData, order []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-24s%-12s%-10s%s\n", "NAME", "PROVIDER", "VALID", "STATUS"))
	for _, id := range order {
		layer := layers[id]
		name := layer.Name
		if name == "" {
			name = id
		}
		b.WriteString(fmt.Sprintf("%-24s%-12s%-10v%s\n", name, layer.Provider, layer.Valid, layer.Status))
	}
	return strings.TrimRight(b.String(), "\n")
}
