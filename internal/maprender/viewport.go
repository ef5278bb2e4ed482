package maprender

import "github.com/golang/geo/s2"

// Fixed geography of the map: the viewport is constrained to a bounding box
// around Slovakia and a fixed zoom range. Matches the public map page.
const (
	MinZoom = 7
	MaxZoom = 16

	// ZoomThreshold is the zoom level at which markers switch from pin
	// glyphs (below) to fixed-geographic-radius circles (at or above).
	ZoomThreshold = 11

	// SearchZoom is applied after a successful location search.
	SearchZoom = 12

	boundsLatLo = 47.5
	boundsLngLo = 16.5
	boundsLatHi = 49.8
	boundsLngHi = 22.8

	defaultCenterLat = 48.669
	defaultCenterLng = 19.699
)

// bounds is the hard viewport constraint (maxBounds with full viscosity).
var bounds = s2.RectFromLatLng(s2.LatLngFromDegrees(boundsLatLo, boundsLngLo)).
	AddPoint(s2.LatLngFromDegrees(boundsLatHi, boundsLngHi))

// Viewport is the single mutable map view: a clamped center and zoom level.
type Viewport struct {
	Center s2.LatLng `json:"-"`
	Zoom   int       `json:"zoom"`
}

// NewViewport returns the initial view: country-wide center at minimum zoom.
func NewViewport() Viewport {
	return Viewport{
		Center: s2.LatLngFromDegrees(defaultCenterLat, defaultCenterLng),
		Zoom:   MinZoom,
	}
}

// Contains reports whether a coordinate falls inside the map bounds.
func Contains(lat, lng float64) bool {
	return bounds.ContainsLatLng(s2.LatLngFromDegrees(lat, lng))
}

// clampCenter pulls a requested center back inside the bounding box. Panning
// outside is not permitted; the edge is hard, not elastic.
func clampCenter(lat, lng float64) s2.LatLng {
	lat = min(max(lat, boundsLatLo), boundsLatHi)
	lng = min(max(lng, boundsLngLo), boundsLngHi)
	return s2.LatLngFromDegrees(lat, lng)
}

func clampZoom(zoom int) int {
	return min(max(zoom, MinZoom), MaxZoom)
}
