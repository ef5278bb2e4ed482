package maprender

import "github.com/lci-slovakia/sighting-map-service/internal/domain"

// Shape is the marker glyph, chosen by zoom level.
type Shape string

const (
	// ShapePin is the teardrop glyph used below ZoomThreshold.
	ShapePin Shape = "pin"
	// ShapeCircle is a filled circle with a radius in meters, used at or
	// above ZoomThreshold so markers keep real-world scale when zoomed in.
	ShapeCircle Shape = "circle"
)

// CircleRadiusMeters is the geographic radius of circle markers.
const CircleRadiusMeters = 300

// Marker colors, shared with the client stylesheet.
const (
	colorObservation         = "#22c55e"
	colorObservationBorder   = "#16a34a"
	colorPresenceSigns       = "#f59e0b"
	colorPresenceSignsBorder = "#d97706"
	colorConflict            = "#ef4444"
	colorConflictBorder      = "#dc2626"
	colorCitizen             = "#ffffff"
	colorCitizenBorder       = "#374151"
	colorActivity            = "#8b5cf6"
	colorActivityBorder      = "#7c3aed"
	colorActivityAttack      = "#dc2626"
	colorActivityAttackBdr   = "#991b1b"
)

// Style is the visual treatment of one marker.
type Style struct {
	Shape        Shape   `json:"shape"`
	Color        string  `json:"color"`
	BorderColor  string  `json:"border_color"`
	FillOpacity  float64 `json:"fill_opacity"`
	Weight       int     `json:"weight"`
	RadiusMeters float64 `json:"radius_meters,omitempty"` // circles only
}

func shapeForZoom(zoom int) Shape {
	if zoom < ZoomThreshold {
		return ShapePin
	}
	return ShapeCircle
}

func sightingStyle(category domain.Category, zoom int) Style {
	var color, border string
	switch category {
	case domain.CategoryConflict:
		color, border = colorConflict, colorConflictBorder
	case domain.CategoryPresenceSigns:
		color, border = colorPresenceSigns, colorPresenceSignsBorder
	default:
		color, border = colorObservation, colorObservationBorder
	}

	style := Style{
		Shape:       shapeForZoom(zoom),
		Color:       color,
		BorderColor: border,
		FillOpacity: 0.7,
		Weight:      4,
	}
	if style.Shape == ShapeCircle {
		style.RadiusMeters = CircleRadiusMeters
	}
	return style
}

func citizenStyle(zoom int) Style {
	style := Style{
		Shape:       shapeForZoom(zoom),
		Color:       colorCitizen,
		BorderColor: colorCitizenBorder,
		FillOpacity: 0.9,
		Weight:      2,
	}
	if style.Shape == ShapeCircle {
		style.RadiusMeters = CircleRadiusMeters
	}
	return style
}

func activityStyle(isConflict bool, zoom int) Style {
	color, border := colorActivity, colorActivityBorder
	if isConflict {
		color, border = colorActivityAttack, colorActivityAttackBdr
	}

	style := Style{
		Shape:       shapeForZoom(zoom),
		Color:       color,
		BorderColor: border,
		FillOpacity: 0.8,
		Weight:      3,
	}
	if style.Shape == ShapeCircle {
		style.RadiusMeters = CircleRadiusMeters
	}
	return style
}
