package render

import (
	"math"
	"path/filepath"
)

const (
	crsWGS84       = "EPSG:4326"
	crsWebMercator = "EPSG:3857"

	earthRadius = 6378137.0
	maxLatitude = 85.05112878
)

// TransformContext reprojects layer coordinates into the destination
// CRS of the map. It knows the geographic/web-mercator pair; any other
// combination passes coordinates through unchanged, which matches how
// the engine treats layers it cannot reproject: they render where their
// raw coordinates land.
type TransformContext struct {
	destCRS string
}

// NewTransformContext returns a context targeting the given destination
// CRS authority id.
func NewTransformContext(destCRS string) TransformContext {
	return TransformContext{destCRS: destCRS}
}

// DestinationCRS returns the destination CRS authority id.
func (tc TransformContext) DestinationCRS() string { return tc.destCRS }

// TransformPoint reprojects a single coordinate from sourceCRS into the
// destination CRS.
func (tc TransformContext) TransformPoint(x, y float64, sourceCRS string) (float64, float64) {
	if sourceCRS == tc.destCRS || sourceCRS == "" || tc.destCRS == "" {
		return x, y
	}

	switch {
	case sourceCRS == crsWGS84 && tc.destCRS == crsWebMercator:
		return lonLatToMercator(x, y)
	case sourceCRS == crsWebMercator && tc.destCRS == crsWGS84:
		return mercatorToLonLat(x, y)
	default:
		return x, y
	}
}

func lonLatToMercator(lon, lat float64) (float64, float64) {
	lat = math.Max(-maxLatitude, math.Min(maxLatitude, lat))
	x := earthRadius * lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

func mercatorToLonLat(x, y float64) (float64, float64) {
	lon := x / earthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// PathResolver resolves datasource paths stored relative to the project
// file against the project directory. Absolute paths pass through.
type PathResolver struct {
	baseDir string
}

// NewPathResolver returns a resolver anchored at baseDir.
func NewPathResolver(baseDir string) PathResolver {
	return PathResolver{baseDir: baseDir}
}

// ResolvePath returns an absolute-or-anchored path for a datasource
// reference.
func (pr PathResolver) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if pr.baseDir == "" {
		return path
	}
	return filepath.Join(pr.baseDir, path)
}
