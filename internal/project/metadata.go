package project

import (
	"image/color"
	"time"

	"project-preview/internal/dom"
	"project-preview/internal/logging"
	"project-preview/internal/metrics"
	"project-preview/internal/render"
)

// Details is the metadata record extracted from a project document.
// OrderedLayerIDs is always exactly the key set of LayersByID, in the
// layer tree's stored order.
type Details struct {
	CRS             string               `json:"crs"`
	ProjectName     string               `json:"project_name"`
	BackgroundColor string               `json:"background_color"`
	Extent          string               `json:"extent"`
	LayersByID      map[string]LayerData `json:"layers_by_id"`
	OrderedLayerIDs []string             `json:"ordered_layer_ids"`
	AttachmentDirs  []string             `json:"attachment_dirs"`
}

// extentProbeWidth/Height is the fixed output size used when probing a
// project's geographic extent (as opposed to rendering a thumbnail).
const (
	extentProbeWidth  = 1024
	extentProbeHeight = 768
)

// defaultAttachmentDirs is used when a project configures no attachment
// directories.
var defaultAttachmentDirs = []string{"DCIM"}

// ExtractDetails harvests summary metadata from an already-open target
// document.
//
// The extent and background color come from a second, transient
// document opened from the same file with layer resolution and
// layout/3D/style loading suppressed: resolving datasources can be
// arbitrarily slow, while these values only need the parsed tree. The
// transient document is closed explicitly before anything else runs:
// the shared engine context may be torn down by the host, so its
// lifetime must not outlast this function.
func ExtractDetails(doc *Document) (*Details, error) {
	logging.Info("Extract project details…")
	start := time.Now()

	details, err := extractDetails(doc)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.ExtractionsTotal.WithLabelValues("success").Inc()
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	return details, nil
}

func extractDetails(doc *Document) (*Details, error) {
	details := &Details{}

	logging.Info("Reading project file…")
	settings := render.NewMapSettings()

	tmp := New()
	tmp.OnReadProject(func(tree *dom.Document) {
		r, _ := tmp.ReadNumEntry("Gui", "/CanvasColorRedPart", 255)
		g, _ := tmp.ReadNumEntry("Gui", "/CanvasColorGreenPart", 255)
		b, _ := tmp.ReadNumEntry("Gui", "/CanvasColorBluePart", 255)
		background := color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
		settings.SetBackgroundColor(background)
		details.BackgroundColor = render.ColorName(background)

		for _, node := range tree.ElementsByTagName("mapcanvas") {
			if name, _ := node.Attr("name"); name == "theMapCanvas" {
				settings.ReadXML(node)
			}
		}

		settings.SetRotation(0)
		settings.SetOutputSize(extentProbeWidth, extentProbeHeight)

		details.Extent = settings.Extent().AsWKTPolygon()
	})

	err := tmp.Read(doc.Path(), DontResolveLayers|DontLoadLayouts|DontLoad3DViews|DontLoadStyles)
	// The transient document is released immediately, on both paths,
	// before any further work against the shared engine context.
	tmp.Close()
	if err != nil {
		return nil, &ExtractionError{Path: doc.Path(), Cause: err}
	}

	details.CRS = doc.CRS()
	details.ProjectName = doc.Title()

	logging.Info("Extracting layer and datasource details…")

	layers, err := InspectLayers(doc)
	if err != nil {
		return nil, &ExtractionError{Path: doc.Path(), Cause: err}
	}

	details.LayersByID = make(map[string]LayerData, len(layers))
	details.OrderedLayerIDs = make([]string, 0, len(layers))
	invalid := 0
	for _, layer := range layers {
		details.LayersByID[layer.ID] = layer
		details.OrderedLayerIDs = append(details.OrderedLayerIDs, layer.ID)
		if !layer.Valid {
			invalid++
		}
	}
	metrics.ProjectLayers.Set(float64(len(layers)))
	metrics.InvalidLayers.Set(float64(invalid))

	// Copy: the record is handed to the caller, the default slice is not.
	dirs, _ := doc.ReadListEntry("QFieldSync", "attachmentDirs", defaultAttachmentDirs)
	details.AttachmentDirs = append([]string(nil), dirs...)

	logging.Info("Project layer checks\n%s", LayersDataToString(details.LayersByID, details.OrderedLayerIDs))

	return details, nil
}
