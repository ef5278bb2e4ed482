// Package mapsession owns the per-viewer map state: the filter selections,
// the viewport, and the drawn markers. Every mutation is a direct state
// replacement that synchronously re-runs the filter engine and redraws the
// affected marker layers, so the session is always consistent with its
// filter state.
package mapsession

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/feed"
	"github.com/lci-slovakia/sighting-map-service/internal/maprender"
	"github.com/lci-slovakia/sighting-map-service/internal/observability"
)

// Stats mirrors the control panel statistics box.
type Stats struct {
	Displayed int `json:"displayed"`
	Total     int `json:"total"`
	Activity  int `json:"activity"`
}

// Session is one viewer's map: filter state, viewport, and drawn markers.
// All methods are safe for concurrent use.
type Session struct {
	id       string
	lang     maprender.Language
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu        sync.Mutex
	state     domain.FilterState
	snapshot  feed.Snapshot
	renderer  *maprender.Renderer
	prevDrawn map[maprender.Layer]int
	closed    bool
}

func newSession(id string, lang maprender.Language, snap feed.Snapshot, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Session {
	s := &Session{
		id:        id,
		lang:      lang,
		geocoder:  geocoder,
		logger:    logger,
		metrics:   metrics,
		state:     domain.DefaultFilterState(snap.Years),
		snapshot:  snap,
		renderer:  maprender.NewRenderer(lang),
		prevDrawn: make(map[maprender.Layer]int),
	}
	s.mu.Lock()
	s.applyLocked()
	s.mu.Unlock()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// FilterState returns the current filter selections.
func (s *Session) FilterState() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Years returns the selectable years, most recent first.
func (s *Session) Years() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Years
}

// Viewport returns the current viewport.
func (s *Session) Viewport() maprender.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Viewport()
}

// Markers returns a copy of the drawn markers for one layer.
func (s *Session) Markers(layer maprender.Layer) []maprender.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Markers(layer)
}

// AllMarkers returns the drawn markers for every layer.
func (s *Session) AllMarkers() map[maprender.Layer][]maprender.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[maprender.Layer][]maprender.Marker, len(maprender.Layers))
	for _, layer := range maprender.Layers {
		out[layer] = s.renderer.Markers(layer)
	}
	return out
}

// Stats returns displayed versus total marker counts.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	displayed := s.renderer.MarkerCount(maprender.LayerSightings) +
		s.renderer.MarkerCount(maprender.LayerCitizenReports) +
		s.renderer.MarkerCount(maprender.LayerActivities)

	return Stats{
		Displayed: displayed,
		Total:     len(s.snapshot.Sightings) + len(domain.CitizenReportPoints) + len(s.snapshot.Activities),
		Activity:  s.renderer.MarkerCount(maprender.LayerActivities),
	}
}

// SetFilters replaces the filter state and redraws. No-op once closed.
func (s *Session) SetFilters(state domain.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state = state
	s.applyLocked()
}

// SetZoom applies a new zoom level; crossing the style threshold redraws.
// No-op once closed.
func (s *Session) SetZoom(zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.renderer.SetZoom(zoom)
	s.recordDrawnLocked()
}

// PanTo moves the viewport center, clamped to the map bounds. No-op once
// closed.
func (s *Session) PanTo(lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.renderer.PanTo(lat, lng)
}

// Search resolves the query and recenters the viewport on success. On a miss
// or failure it returns ok=false with a localized message and leaves the
// viewport unchanged. Markers are never affected.
func (s *Session) Search(ctx context.Context, query string) (ok bool, message string) {
	result, err := s.geocoder.Search(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrNoResult) {
			s.metrics.GeocodeRequests.WithLabelValues("no_result").Inc()
			return false, maprender.SearchNotFoundMessage(s.lang)
		}
		s.logger.Warn("location search failed", "session", s.id, "query", query, "error", err)
		s.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return false, maprender.SearchErrorMessage(s.lang)
	}
	s.metrics.GeocodeRequests.WithLabelValues("success").Inc()

	s.mu.Lock()
	if !s.closed {
		s.state.SearchText = query
		s.renderer.Recenter(result.Lat, result.Lon)
		s.recordDrawnLocked()
	}
	s.mu.Unlock()
	return true, result.DisplayName
}

// UpdateData swaps in a fresh feed snapshot and redraws with the current
// filter state. Called by the manager when a feed refresh lands.
func (s *Session) UpdateData(snap feed.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.snapshot = snap
	s.applyLocked()
}

// Close discards all marker collections. Further data pushes are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.renderer.Destroy()
	s.recordDrawnLocked()
}

// applyLocked runs the filter engine and redraws every layer whose input
// changed. Caller holds s.mu.
func (s *Session) applyLocked() {
	visibleSightings, visibleActivities := domain.FilterVisible(s.snapshot.Sightings, s.snapshot.Activities, s.state)
	s.renderer.DrawSightings(visibleSightings)
	s.renderer.DrawCitizenReports(s.state.ShowCitizenReports)
	s.renderer.DrawActivities(visibleActivities, s.state.ShowActivities)
	s.recordDrawnLocked()
}

// recordDrawnLocked updates the per-layer marker gauges by delta so the
// gauge stays a sum over live sessions. Caller holds s.mu.
func (s *Session) recordDrawnLocked() {
	for _, layer := range maprender.Layers {
		count := s.renderer.MarkerCount(layer)
		if delta := count - s.prevDrawn[layer]; delta != 0 {
			s.metrics.MarkersDrawn.WithLabelValues(string(layer)).Add(float64(delta))
		}
		s.prevDrawn[layer] = count
	}
}
