package render

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"project-preview/internal/dom"

	"github.com/goccy/go-json"
)

// GeometryKind classifies a feature geometry for rasterization.
type GeometryKind int

const (
	// KindPoint renders each vertex as a small marker.
	KindPoint GeometryKind = iota
	// KindLine renders each path as a stroked polyline.
	KindLine
	// KindPolygon renders each ring set as a filled shape.
	KindPolygon
)

// Point is a single map coordinate.
type Point struct {
	X, Y float64
}

// Path is an ordered run of coordinates: a ring for polygons, a
// polyline for lines, isolated markers for points.
type Path []Point

// Geometry is one drawable shape.
type Geometry struct {
	Kind  GeometryKind
	Paths []Path
}

// Feature is one datasource feature.
type Feature struct {
	Geometry Geometry
}

// Layer is a renderable layer: its features plus the symbol color they
// draw with. SourceCRS names the CRS the raw coordinates are in.
type Layer struct {
	ID        string
	Name      string
	SourceCRS string
	Color     color.NRGBA
	Features  []Feature
}

type geoJSONGeometry struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []geoJSONGeometry `json:"geometries"`
}

type geoJSONFeature struct {
	Geometry *geoJSONGeometry `json:"geometry"`
}

type geoJSONDocument struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
	Geometry *geoJSONGeometry `json:"geometry"`
	// Set when the document is a bare geometry.
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []geoJSONGeometry `json:"geometries"`
}

// LoadGeoJSONLayer reads a GeoJSON datasource into a renderable layer.
// GeoJSON coordinates are geographic per RFC 7946, so SourceCRS is
// always EPSG:4326.
func LoadGeoJSONLayer(path, id, name string, symbol color.NRGBA) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasource: %w", err)
	}

	var doc geoJSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode GeoJSON: %w", err)
	}

	layer := &Layer{
		ID:        id,
		Name:      name,
		SourceCRS: crsWGS84,
		Color:     symbol,
	}

	switch doc.Type {
	case "FeatureCollection":
		for _, f := range doc.Features {
			if f.Geometry == nil {
				continue
			}
			layer.Features = append(layer.Features, decodeGeometries(*f.Geometry)...)
		}
	case "Feature":
		if doc.Geometry != nil {
			layer.Features = append(layer.Features, decodeGeometries(*doc.Geometry)...)
		}
	default:
		layer.Features = append(layer.Features, decodeGeometries(geoJSONGeometry{
			Type:        doc.Type,
			Coordinates: doc.Coordinates,
			Geometries:  doc.Geometries,
		})...)
	}

	return layer, nil
}

// decodeGeometries flattens one GeoJSON geometry (including
// GeometryCollection and Multi* variants) into drawable features.
// Undecodable geometries are dropped, not raised: a bad feature must
// not take the layer down.
func decodeGeometries(g geoJSONGeometry) []Feature {
	var out []Feature
	add := func(kind GeometryKind, paths []Path) {
		if len(paths) > 0 {
			out = append(out, Feature{Geometry: Geometry{Kind: kind, Paths: paths}})
		}
	}

	switch g.Type {
	case "Point":
		var c []float64
		if json.Unmarshal(g.Coordinates, &c) == nil && len(c) >= 2 {
			add(KindPoint, []Path{{{X: c[0], Y: c[1]}}})
		}
	case "MultiPoint":
		var cs [][]float64
		if json.Unmarshal(g.Coordinates, &cs) == nil {
			add(KindPoint, []Path{toPath(cs)})
		}
	case "LineString":
		var cs [][]float64
		if json.Unmarshal(g.Coordinates, &cs) == nil {
			add(KindLine, []Path{toPath(cs)})
		}
	case "MultiLineString":
		var css [][][]float64
		if json.Unmarshal(g.Coordinates, &css) == nil {
			add(KindLine, toPaths(css))
		}
	case "Polygon":
		var css [][][]float64
		if json.Unmarshal(g.Coordinates, &css) == nil {
			add(KindPolygon, toPaths(css))
		}
	case "MultiPolygon":
		var csss [][][][]float64
		if json.Unmarshal(g.Coordinates, &csss) == nil {
			for _, css := range csss {
				add(KindPolygon, toPaths(css))
			}
		}
	case "GeometryCollection":
		for _, sub := range g.Geometries {
			out = append(out, decodeGeometries(sub)...)
		}
	}

	return out
}

func toPath(cs [][]float64) Path {
	path := make(Path, 0, len(cs))
	for _, c := range cs {
		if len(c) >= 2 {
			path = append(path, Point{X: c[0], Y: c[1]})
		}
	}
	return path
}

func toPaths(css [][][]float64) []Path {
	paths := make([]Path, 0, len(css))
	for _, cs := range css {
		if p := toPath(cs); len(p) > 0 {
			paths = append(paths, p)
		}
	}
	return paths
}

// Deterministic fallback colors for layers without a parseable symbol.
var fallbackPalette = []color.NRGBA{
	{R: 0x1f, G: 0x78, B: 0xb4, A: 0xff},
	{R: 0x33, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xe3, G: 0x1a, B: 0x1c, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x00, A: 0xff},
	{R: 0x6a, G: 0x3d, B: 0x9a, A: 0xff},
	{R: 0xb1, G: 0x59, B: 0x28, A: 0xff},
}

// SymbolColor extracts the first symbol fill color from a layer node.
// Both symbol storage generations are recognized: <prop k="color"
// v="r,g,b,a"/> and <Option name="color" value="r,g,b,a"/>. When no
// color can be parsed the fallback palette entry for the layer index is
// used, so repeated renders stay deterministic.
func SymbolColor(layerNode *dom.Node, layerIndex int) color.NRGBA {
	if layerNode != nil {
		for _, prop := range layerNode.Descendants("prop") {
			if k, _ := prop.Attr("k"); k == "color" {
				if v, ok := prop.Attr("v"); ok {
					if c, ok := parseSymbolColor(v); ok {
						return c
					}
				}
			}
		}
		for _, opt := range layerNode.Descendants("Option") {
			if name, _ := opt.Attr("name"); name == "color" {
				if v, ok := opt.Attr("value"); ok {
					if c, ok := parseSymbolColor(v); ok {
						return c
					}
				}
			}
		}
	}

	if layerIndex < 0 {
		layerIndex = 0
	}
	return fallbackPalette[layerIndex%len(fallbackPalette)]
}

// parseSymbolColor parses the "r,g,b,a" channel string used by symbol
// properties.
func parseSymbolColor(v string) (color.NRGBA, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 3 {
		return color.NRGBA{}, false
	}
	channels := make([]uint8, 0, 4)
	for _, part := range parts[:min(len(parts), 4)] {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 255 {
			return color.NRGBA{}, false
		}
		channels = append(channels, uint8(n))
	}
	c := color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}
	if len(channels) == 4 {
		c.A = channels[3]
	}
	return c, true
}
