package render

import (
	"fmt"
	"image/color"
	"strconv"

	"project-preview/internal/dom"
)

// Rect is an axis-aligned geographic bounding region.
type Rect struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// AsWKTPolygon serializes the rectangle as a well-known-text polygon,
// ring closed, counter-clockwise from the lower-left corner.
func (r Rect) AsWKTPolygon() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("POLYGON((%s %s, %s %s, %s %s, %s %s, %s %s))",
		f(r.XMin), f(r.YMin),
		f(r.XMax), f(r.YMin),
		f(r.XMax), f(r.YMax),
		f(r.XMin), f(r.YMax),
		f(r.XMin), f(r.YMin))
}

// MapSettings is the render configuration for one job.
type MapSettings struct {
	extent     Rect
	rotation   float64
	outWidth   int
	outHeight  int
	background color.NRGBA
	layers     []*Layer
	transform  TransformContext
	resolver   PathResolver
}

// NewMapSettings returns settings with a white background and no
// extent; ReadXML populates the canvas-derived fields.
func NewMapSettings() *MapSettings {
	return &MapSettings{
		background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		outWidth:   1,
		outHeight:  1,
	}
}

// ReadXML loads extent and rotation from a mapcanvas element.
func (s *MapSettings) ReadXML(node *dom.Node) {
	if extent := node.Child("extent"); extent != nil {
		s.extent = Rect{
			XMin: parseFloat(extent.ChildText("xmin")),
			YMin: parseFloat(extent.ChildText("ymin")),
			XMax: parseFloat(extent.ChildText("xmax")),
			YMax: parseFloat(extent.ChildText("ymax")),
		}
	}
	if rotation := node.ChildText("rotation"); rotation != "" {
		s.rotation = parseFloat(rotation)
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// SetExtent replaces the stored visible extent.
func (s *MapSettings) SetExtent(r Rect) { s.extent = r }

// SetRotation sets the canvas rotation in degrees.
func (s *MapSettings) SetRotation(deg float64) { s.rotation = deg }

// Rotation returns the canvas rotation in degrees.
func (s *MapSettings) Rotation() float64 { return s.rotation }

// SetOutputSize sets the output raster dimensions in pixels.
func (s *MapSettings) SetOutputSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.outWidth = width
	s.outHeight = height
}

// OutputSize returns the output raster dimensions in pixels.
func (s *MapSettings) OutputSize() (width, height int) {
	return s.outWidth, s.outHeight
}

// SetBackgroundColor sets the canvas background color.
func (s *MapSettings) SetBackgroundColor(c color.NRGBA) { s.background = c }

// BackgroundColor returns the canvas background color.
func (s *MapSettings) BackgroundColor() color.NRGBA { return s.background }

// SetLayers sets the layer stack in draw order: the first layer is
// drawn first, so the front-most layer must come last.
func (s *MapSettings) SetLayers(layers []*Layer) { s.layers = layers }

// Layers returns the layer stack in draw order.
func (s *MapSettings) Layers() []*Layer { return s.layers }

// SetTransformContext sets the coordinate transform context applied to
// layer geometries before rasterization.
func (s *MapSettings) SetTransformContext(tc TransformContext) { s.transform = tc }

// TransformContext returns the coordinate transform context.
func (s *MapSettings) TransformContext() TransformContext { return s.transform }

// SetPathResolver sets the resolver used for relative datasource paths.
func (s *MapSettings) SetPathResolver(pr PathResolver) { s.resolver = pr }

// PathResolver returns the datasource path resolver.
func (s *MapSettings) PathResolver() PathResolver { return s.resolver }

// Extent returns the visible extent: the stored extent grown around its
// center so its aspect ratio matches the output size. The map engine
// never letterboxes, it widens the shorter axis instead.
func (s *MapSettings) Extent() Rect {
	extent := s.extent
	if extent.IsEmpty() || s.outWidth < 1 || s.outHeight < 1 {
		return extent
	}

	outputRatio := float64(s.outWidth) / float64(s.outHeight)
	extentRatio := extent.Width() / extent.Height()

	if extentRatio < outputRatio {
		// Too narrow: widen around the horizontal center.
		targetWidth := extent.Height() * outputRatio
		cx := (extent.XMin + extent.XMax) / 2
		extent.XMin = cx - targetWidth/2
		extent.XMax = cx + targetWidth/2
	} else if extentRatio > outputRatio {
		// Too wide: heighten around the vertical center.
		targetHeight := extent.Width() / outputRatio
		cy := (extent.YMin + extent.YMax) / 2
		extent.YMin = cy - targetHeight/2
		extent.YMax = cy + targetHeight/2
	}

	return extent
}

// ColorName returns the #rrggbb hex representation of a color, the
// same representation callers persist in metadata records.
func ColorName(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
