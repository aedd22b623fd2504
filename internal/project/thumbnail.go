package project

import (
	"image/color"
	"path/filepath"
	"strings"

	"project-preview/internal/dom"
	"project-preview/internal/logging"
	"project-preview/internal/metrics"
	"project-preview/internal/render"

	"github.com/disintegration/imaging"
)

// thumbnailWidth/Height is the fixed output size of project thumbnails.
const (
	thumbnailWidth  = 100
	thumbnailHeight = 100
)

// GenerateThumbnail renders a small preview raster of the project's
// configured layers and writes it to thumbnailPath; the image format
// follows the output path's extension.
//
// A transient document is opened with layers forced read-only and
// layout/3D/style loading suppressed: rendering needs none of those,
// and a read-only open can never leave partial state in a file that is
// being processed concurrently elsewhere. The render itself runs on the
// engine's own workers; this function blocks until the completion
// signal fires, then saves the raster and releases the document.
func GenerateThumbnail(projectPath, thumbnailPath string) error {
	logging.Info("Generate project thumbnail image…")

	if err := generateThumbnail(projectPath, thumbnailPath); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.ThumbnailsTotal.WithLabelValues("success").Inc()
	logging.Info("Project thumbnail image generated!")
	return nil
}

func generateThumbnail(projectPath, thumbnailPath string) error {
	settings := render.NewMapSettings()

	tmp := New()
	tmp.OnReadProject(func(tree *dom.Document) {
		r, _ := tmp.ReadNumEntry("Gui", "/CanvasColorRedPart", 255)
		g, _ := tmp.ReadNumEntry("Gui", "/CanvasColorGreenPart", 255)
		b, _ := tmp.ReadNumEntry("Gui", "/CanvasColorBluePart", 255)
		settings.SetBackgroundColor(color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})

		for _, node := range tree.ElementsByTagName("mapcanvas") {
			if name, _ := node.Attr("name"); name == "theMapCanvas" {
				settings.ReadXML(node)
			}
		}

		settings.SetRotation(0)
		settings.SetTransformContext(render.NewTransformContext(tmp.CRS()))
		settings.SetPathResolver(render.NewPathResolver(filepath.Dir(projectPath)))
		settings.SetOutputSize(thumbnailWidth, thumbnailHeight)
		// The tree stores layers front-to-back; the engine draws
		// back-to-front, so the order is reversed.
		settings.SetLayers(loadRenderLayers(tmp, tree, settings.PathResolver()))
	})

	err := tmp.Read(projectPath, ForceReadOnlyLayers|DontLoadLayouts|DontLoad3DViews|DontLoadStyles)
	if err != nil {
		tmp.Close()
		return &ThumbnailError{Reason: "failed to read project file", Cause: err}
	}

	job := render.NewParallelRenderJob(settings)
	job.Start()
	job.WaitForFinished()

	if err := job.Err(); err != nil {
		tmp.Close()
		return &ThumbnailError{Reason: err.Error(), Cause: err}
	}

	img := job.RenderedImage()

	if err := imaging.Save(img, thumbnailPath); err != nil {
		tmp.Close()
		return &ThumbnailError{Reason: "Failed to save.", Cause: err}
	}

	// Release the transient document only after the image has been
	// materialized; the engine context must outlive every document
	// reading from it.
	tmp.Close()
	return nil
}

// loadRenderLayers builds the draw-order layer stack: visible layers
// from the document's stored order, reversed, with renderable
// datasources materialized. Layers the engine cannot load render as
// nothing rather than failing the job.
func loadRenderLayers(doc *Document, tree *dom.Document, resolver render.PathResolver) []*render.Layer {
	nodesByID := make(map[string]*dom.Node)
	if section := tree.Root.Child("projectlayers"); section != nil {
		for _, node := range section.Children {
			if node.Name == "maplayer" {
				nodesByID[node.ChildText("id")] = node
			}
		}
	}

	order := doc.LayerOrder()
	layers := make([]*render.Layer, 0, len(order))

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if !doc.LayerVisible(id) {
			logging.Debug("Skipping hidden layer %s", id)
			continue
		}
		node := nodesByID[id]
		if node == nil {
			logging.Debug("Skipping layer %s: no definition", id)
			continue
		}

		layer := loadRenderLayer(doc, node, id, len(order)-1-i, resolver)
		if layer != nil {
			layers = append(layers, layer)
		}
	}

	return layers
}

func loadRenderLayer(doc *Document, node *dom.Node, id string, index int, resolver render.PathResolver) *render.Layer {
	provider := ""
	if p := node.Child("provider"); p != nil {
		provider = p.Text()
	}
	name := node.ChildText("layername")
	symbol := render.SymbolColor(node, index)

	switch provider {
	case "ogr", "delimitedtext":
		source := ResolveDatasourcePath("", node.ChildText("datasource"))
		path := resolver.ResolvePath(source)
		if !isGeoJSONPath(path) {
			logging.Debug("Layer %s datasource %s is not renderable, drawing nothing", id, path)
			return nil
		}
		layer, err := render.LoadGeoJSONLayer(path, id, name, symbol)
		if err != nil {
			logging.Warn("Failed to load layer %s datasource: %v", id, err)
			return nil
		}
		return layer
	default:
		logging.Debug("Layer %s provider %q is not renderable, drawing nothing", id, provider)
		return nil
	}
}

func isGeoJSONPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return true
	default:
		return false
	}
}
