package mapsession

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/feed"
	"github.com/lci-slovakia/sighting-map-service/internal/maprender"
	"github.com/lci-slovakia/sighting-map-service/internal/observability"
)

// Manager tracks live sessions and pushes feed refreshes into them.
type Manager struct {
	store    *feed.Store
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager and subscribes it to feed updates.
func NewManager(store *feed.Store, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Manager {
	m := &Manager{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
		sessions: make(map[string]*Session),
	}
	store.Subscribe(m.pushSnapshot)
	return m
}

// Create starts a new session seeded with the current feed snapshot.
func (m *Manager) Create(lang maprender.Language) *Session {
	if lang != maprender.LanguageEN {
		lang = maprender.LanguageSK
	}
	s := newSession(uuid.NewString(), lang, m.store.Snapshot(), m.geocoder, m.logger, m.metrics)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.metrics.SessionsActive.Inc()
	m.logger.Info("session created", "session", s.ID(), "lang", lang)
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete closes and removes a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	m.metrics.SessionsActive.Dec()
	m.logger.Info("session closed", "session", id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) pushSnapshot(snap feed.Snapshot) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.UpdateData(snap)
	}
}
