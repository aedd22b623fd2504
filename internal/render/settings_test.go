package render

import (
	"image/color"
	"strings"
	"testing"

	"project-preview/internal/dom"
)

func TestRectAsWKTPolygon(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want string
	}{
		{
			"Integral bounds",
			Rect{XMin: -16, YMin: -12, XMax: 16, YMax: 12},
			"POLYGON((-16 -12, 16 -12, 16 12, -16 12, -16 -12))",
		},
		{
			"Fractional bounds keep full precision",
			Rect{XMin: 0.5, YMin: -1.25, XMax: 2.5, YMax: 1.75},
			"POLYGON((0.5 -1.25, 2.5 -1.25, 2.5 1.75, 0.5 1.75, 0.5 -1.25))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.AsWKTPolygon(); got != tt.want {
				t.Errorf("AsWKTPolygon() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtentAspectAdjustment(t *testing.T) {
	tests := []struct {
		name          string
		extent        Rect
		width, height int
		want          Rect
	}{
		{
			"Matching aspect unchanged",
			Rect{XMin: -16, YMin: -12, XMax: 16, YMax: 12},
			1024, 768,
			Rect{XMin: -16, YMin: -12, XMax: 16, YMax: 12},
		},
		{
			"Narrow extent widened around center",
			Rect{XMin: -4, YMin: -12, XMax: 4, YMax: 12},
			100, 100,
			Rect{XMin: -12, YMin: -12, XMax: 12, YMax: 12},
		},
		{
			"Wide extent heightened around center",
			Rect{XMin: -16, YMin: -4, XMax: 16, YMax: 4},
			100, 100,
			Rect{XMin: -16, YMin: -16, XMax: 16, YMax: 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMapSettings()
			s.SetExtent(tt.extent)
			s.SetOutputSize(tt.width, tt.height)

			if got := s.Extent(); got != tt.want {
				t.Errorf("Extent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtentEmptyPassesThrough(t *testing.T) {
	s := NewMapSettings()
	s.SetOutputSize(100, 100)

	if got := s.Extent(); !got.IsEmpty() {
		t.Errorf("Extent() = %+v, want empty", got)
	}
}

func TestReadXML(t *testing.T) {
	const canvas = `<mapcanvas name="theMapCanvas">
  <extent>
    <xmin>-10</xmin>
    <ymin>-5</ymin>
    <xmax>10</xmax>
    <ymax>5</ymax>
  </extent>
  <rotation>45</rotation>
</mapcanvas>`

	doc, err := dom.Parse(strings.NewReader(canvas))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	s := NewMapSettings()
	s.ReadXML(doc.Root)

	want := Rect{XMin: -10, YMin: -5, XMax: 10, YMax: 5}
	if s.extent != want {
		t.Errorf("extent = %+v, want %+v", s.extent, want)
	}
	if s.Rotation() != 45 {
		t.Errorf("Rotation() = %v, want 45", s.Rotation())
	}
}

func TestOutputSizeFloor(t *testing.T) {
	s := NewMapSettings()
	s.SetOutputSize(0, -3)

	w, h := s.OutputSize()
	if w != 1 || h != 1 {
		t.Errorf("OutputSize() = %dx%d, want 1x1", w, h)
	}
}

func TestColorName(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want string
	}{
		{"White", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, "#ffffff"},
		{"Black", color.NRGBA{A: 255}, "#000000"},
		{"Mixed channels", color.NRGBA{R: 0x1f, G: 0x78, B: 0xb4, A: 255}, "#1f78b4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorName(tt.c); got != tt.want {
				t.Errorf("ColorName() = %q, want %q", got, tt.want)
			}
		})
	}
}
