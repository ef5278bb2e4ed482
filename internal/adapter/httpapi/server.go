// Package httpapi exposes the map service over HTTP: operational endpoints
// (health, readiness, metrics) and the session API consumed by the map page.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/maprender"
	"github.com/lci-slovakia/sighting-map-service/internal/mapsession"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// YearLister returns the selectable years, most recent first.
type YearLister interface {
	Years() []string
}

// Server exposes the session API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	sessions   *mapsession.Manager
	ready      ReadinessChecker
	years      YearLister
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, sessions *mapsession.Manager, ready ReadinessChecker, years YearLister, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sessions: sessions,
		ready:    ready,
		years:    years,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("GET /api/tiles", s.handleTiles)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/markers", s.handleMarkers)
	mux.HandleFunc("PATCH /api/sessions/{id}/filters", s.handleFilters)
	mux.HandleFunc("POST /api/sessions/{id}/search", s.handleSearch)
	mux.HandleFunc("POST /api/sessions/{id}/viewport", s.handleViewport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"years": s.years.Years()})
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tile_layers": maprender.TileLayers(langFromRequest(r)),
	})
}

// sessionView is the client-facing shape of a session: its filter state plus
// everything the control panel needs to render itself.
type sessionView struct {
	ID          string                `json:"id"`
	FilterState domain.FilterState    `json:"filter_state"`
	Years       []string              `json:"years"`
	Viewport    viewportView          `json:"viewport"`
	TileLayers  []maprender.TileLayer `json:"tile_layers"`
}

type viewportView struct {
	Zoom      int     `json:"zoom"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func viewportOf(sess *mapsession.Session) viewportView {
	vp := sess.Viewport()
	return viewportView{
		Zoom:      vp.Zoom,
		Latitude:  vp.Center.Lat.Degrees(),
		Longitude: vp.Center.Lng.Degrees(),
	}
}

func viewOf(sess *mapsession.Session, lang maprender.Language) sessionView {
	return sessionView{
		ID:          sess.ID(),
		FilterState: sess.FilterState(),
		Years:       sess.Years(),
		Viewport:    viewportOf(sess),
		TileLayers:  maprender.TileLayers(lang),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	lang := langFromRequest(r)
	sess := s.sessions.Create(lang)
	writeJSON(w, http.StatusCreated, viewOf(sess, lang))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, langFromRequest(r)))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session(w, r); !ok {
		return
	}
	s.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"layers": sess.AllMarkers(),
		"stats":  sess.Stats(),
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var state domain.FilterState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter state")
		return
	}
	sess.SetFilters(state)
	writeJSON(w, http.StatusOK, viewOf(sess, langFromRequest(r)))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeError(w, http.StatusBadRequest, "missing search query")
		return
	}

	found, message := sess.Search(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, map[string]any{
		"found":    found,
		"message":  message,
		"viewport": viewportOf(sess),
	})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Zoom      *int     `json:"zoom"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid viewport request")
		return
	}

	if req.Latitude != nil && req.Longitude != nil {
		sess.PanTo(*req.Latitude, *req.Longitude)
	}
	if req.Zoom != nil {
		sess.SetZoom(*req.Zoom)
	}
	writeJSON(w, http.StatusOK, viewportOf(sess))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*mapsession.Session, bool) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

// langFromRequest picks the popup and message language. Slovak is the
// default; only an explicit lang=en switches to English.
func langFromRequest(r *http.Request) maprender.Language {
	if r.URL.Query().Get("lang") == "en" {
		return maprender.LanguageEN
	}
	return maprender.LanguageSK
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
