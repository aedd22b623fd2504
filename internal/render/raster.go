package render

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

const (
	lineWidthPx    = 1.5
	pointRadiusPx  = 2.5
	pointSegments  = 12
	minStrokeWidth = 0.75
)

// rasterizeLayer draws one layer onto a fresh transparent raster of the
// given size, mapping map coordinates through the transform context and
// the visible extent.
func rasterizeLayer(layer *Layer, extent Rect, width, height int, tc TransformContext) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	if layer == nil || extent.IsEmpty() {
		return out
	}

	sx := float64(width) / extent.Width()
	sy := float64(height) / extent.Height()
	toPixel := func(p Point) (float32, float32) {
		x, y := tc.TransformPoint(p.X, p.Y, layer.SourceCRS)
		return float32((x - extent.XMin) * sx), float32((extent.YMax - y) * sy)
	}

	src := image.NewUniform(layer.Color)

	for _, feature := range layer.Features {
		r := vector.NewRasterizer(width, height)
		switch feature.Geometry.Kind {
		case KindPolygon:
			for _, ring := range feature.Geometry.Paths {
				addRing(r, ring, toPixel)
			}
		case KindLine:
			for _, path := range feature.Geometry.Paths {
				addStroke(r, path, toPixel, lineWidthPx)
			}
		case KindPoint:
			for _, path := range feature.Geometry.Paths {
				for _, p := range path {
					addMarker(r, p, toPixel)
				}
			}
		}
		r.Draw(out, out.Bounds(), src, image.Point{})
	}

	return out
}

func addRing(r *vector.Rasterizer, ring Path, toPixel func(Point) (float32, float32)) {
	if len(ring) < 3 {
		return
	}
	x, y := toPixel(ring[0])
	r.MoveTo(x, y)
	for _, p := range ring[1:] {
		x, y = toPixel(p)
		r.LineTo(x, y)
	}
	r.ClosePath()
}

// addStroke fills each segment of a polyline as a thin quad; the
// rasterizer only fills, so strokes are built from geometry.
func addStroke(r *vector.Rasterizer, path Path, toPixel func(Point) (float32, float32), width float64) {
	if len(path) < 2 {
		return
	}
	if width < minStrokeWidth {
		width = minStrokeWidth
	}
	half := float32(width / 2)

	for i := 0; i < len(path)-1; i++ {
		x0, y0 := toPixel(path[i])
		x1, y1 := toPixel(path[i+1])

		dx := float64(x1 - x0)
		dy := float64(y1 - y0)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit normal of the segment.
		nx := float32(-dy/length) * half
		ny := float32(dx/length) * half

		r.MoveTo(x0+nx, y0+ny)
		r.LineTo(x1+nx, y1+ny)
		r.LineTo(x1-nx, y1-ny)
		r.LineTo(x0-nx, y0-ny)
		r.ClosePath()
	}
}

func addMarker(r *vector.Rasterizer, p Point, toPixel func(Point) (float32, float32)) {
	cx, cy := toPixel(p)
	radius := float32(pointRadiusPx)

	r.MoveTo(cx+radius, cy)
	for i := 1; i <= pointSegments; i++ {
		angle := 2 * math.Pi * float64(i) / pointSegments
		r.LineTo(cx+radius*float32(math.Cos(angle)), cy+radius*float32(math.Sin(angle)))
	}
	r.ClosePath()
}
