// Package maprender owns the map viewport and the drawn marker state. It is
// the server-side equivalent of the Leaflet layer bookkeeping on the map
// page: three independent marker collections that are cleared and redrawn
// per layer, never wholesale, so toggling one layer leaves the others alone.
package maprender

import (
	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

// Layer identifies one of the independent marker collections.
type Layer string

const (
	LayerSightings      Layer = "sightings"
	LayerCitizenReports Layer = "citizen_reports"
	LayerActivities     Layer = "activities"
)

// Layers lists all marker layers in render order.
var Layers = []Layer{LayerSightings, LayerCitizenReports, LayerActivities}

// Marker is one drawn map marker with its style and popup.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Style     Style   `json:"style"`
	Popup     Popup   `json:"popup"`
}

// TileLayer describes a selectable base tile layer.
type TileLayer struct {
	Name        string `json:"name"`
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"max_zoom"`
}

// TileLayers returns the two interchangeable base layers offered by the
// layer-switch control.
func TileLayers(lang Language) []TileLayer {
	standard, terrain := "Mapa", "Terén"
	if lang == LanguageEN {
		standard, terrain = "Map", "Terrain"
	}
	return []TileLayer{
		{
			Name:        standard,
			URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors",
			MaxZoom:     19,
		},
		{
			Name:        terrain,
			URLTemplate: "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors, © OpenTopoMap",
			MaxZoom:     17,
		},
	}
}

// Renderer holds the viewport and the per-layer marker collections. It never
// recreates itself in response to data changes; a layer update clears and
// redraws only that layer. Not safe for concurrent use; the owning session
// serializes access.
type Renderer struct {
	viewport Viewport
	lang     Language
	layers   map[Layer][]Marker

	// Last known inputs, retained so a zoom change across the style
	// threshold can redraw every layer without new data.
	sightings       []domain.Sighting
	activities      []domain.Activity
	citizenVisible  bool
	activityVisible bool
}

// NewRenderer creates a renderer with an empty marker set and the initial
// country-wide viewport.
func NewRenderer(lang Language) *Renderer {
	return &Renderer{
		viewport: NewViewport(),
		lang:     lang,
		layers:   make(map[Layer][]Marker),
	}
}

// Viewport returns the current view.
func (r *Renderer) Viewport() Viewport { return r.viewport }

// Markers returns a copy of one layer's drawn markers.
func (r *Renderer) Markers(layer Layer) []Marker {
	out := make([]Marker, len(r.layers[layer]))
	copy(out, r.layers[layer])
	return out
}

// MarkerCount returns the number of drawn markers on one layer.
func (r *Renderer) MarkerCount(layer Layer) int { return len(r.layers[layer]) }

// DrawSightings replaces the sighting layer with markers for the visible
// subset. Calling it twice with the same input draws the same marker count.
func (r *Renderer) DrawSightings(visible []domain.Sighting) {
	r.sightings = visible
	r.clearLayer(LayerSightings)

	markers := make([]Marker, 0, len(visible))
	for _, s := range visible {
		markers = append(markers, Marker{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Style:     sightingStyle(s.Category, r.viewport.Zoom),
			Popup:     sightingPopup(s, r.lang),
		})
	}
	r.drawLayer(LayerSightings, markers)
}

// DrawCitizenReports redraws the citizen-report layer. The point set is
// static; only the visibility flag varies.
func (r *Renderer) DrawCitizenReports(visible bool) {
	r.citizenVisible = visible
	r.clearLayer(LayerCitizenReports)
	if !visible {
		return
	}

	markers := make([]Marker, 0, len(domain.CitizenReportPoints))
	for _, p := range domain.CitizenReportPoints {
		markers = append(markers, Marker{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Style:     citizenStyle(r.viewport.Zoom),
			Popup:     citizenPopup(r.lang),
		})
	}
	r.drawLayer(LayerCitizenReports, markers)
}

// DrawActivities replaces the activity layer with markers for the visible
// subset, honoring the master activity toggle.
func (r *Renderer) DrawActivities(visible []domain.Activity, enabled bool) {
	r.activities = visible
	r.activityVisible = enabled
	r.clearLayer(LayerActivities)
	if !enabled {
		return
	}

	markers := make([]Marker, 0, len(visible))
	for _, a := range visible {
		markers = append(markers, Marker{
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Style:     activityStyle(a.IsConflict, r.viewport.Zoom),
			Popup:     activityPopup(a, r.lang),
		})
	}
	r.drawLayer(LayerActivities, markers)
}

// SetZoom clamps and applies a new zoom level. When the change crosses the
// pin/circle threshold in either direction, every layer is redrawn from its
// retained input so all marker styles switch together.
func (r *Renderer) SetZoom(zoom int) {
	zoom = clampZoom(zoom)
	crossed := shapeForZoom(zoom) != shapeForZoom(r.viewport.Zoom)
	r.viewport.Zoom = zoom
	if crossed {
		r.redrawAll()
	}
}

// PanTo moves the center, clamped to the country bounding box. Markers are
// untouched; panning never changes styles.
func (r *Renderer) PanTo(lat, lng float64) {
	r.viewport.Center = clampCenter(lat, lng)
}

// Recenter jumps the view to a searched location at the fixed search zoom.
func (r *Renderer) Recenter(lat, lng float64) {
	r.viewport.Center = clampCenter(lat, lng)
	r.SetZoom(SearchZoom)
}

// CenterLatLng returns the viewport center in degrees.
func (r *Renderer) CenterLatLng() (lat, lng float64) {
	return r.viewport.Center.Lat.Degrees(), r.viewport.Center.Lng.Degrees()
}

// Destroy discards all marker collections and the retained redraw inputs, so
// a later redraw cannot resurrect markers. After Destroy the renderer must
// not be reused; a remount creates a fresh one.
func (r *Renderer) Destroy() {
	for _, layer := range Layers {
		r.clearLayer(layer)
	}
	r.sightings = nil
	r.activities = nil
	r.citizenVisible = false
	r.activityVisible = false
}

func (r *Renderer) redrawAll() {
	r.DrawSightings(r.sightings)
	r.DrawCitizenReports(r.citizenVisible)
	r.DrawActivities(r.activities, r.activityVisible)
}

func (r *Renderer) clearLayer(layer Layer) {
	delete(r.layers, layer)
}

func (r *Renderer) drawLayer(layer Layer, markers []Marker) {
	r.layers[layer] = markers
}
