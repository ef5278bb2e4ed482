package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/observability"
)

// UpdatePublisher pushes newly seen sightings to downstream consumers.
type UpdatePublisher interface {
	PublishSightings(ctx context.Context, sightings []domain.Sighting) error
}

// Snapshot is an immutable view of the loaded data sets. Callers must not
// mutate the slices.
type Snapshot struct {
	Sightings  []domain.Sighting
	Activities []domain.Activity
	Years      []string
}

// Store holds the current data sets and refreshes them periodically. The two
// feeds refresh independently: there is no barrier, so subscribers may see
// sightings before activities arrive and a second notification once they do.
type Store struct {
	loader    *Loader
	publisher UpdatePublisher // optional
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock

	mu         sync.RWMutex
	sightings  []domain.Sighting
	activities []domain.Activity
	// seen holds every sighting key ever observed, for the life of the
	// process, so a row that leaves the feed and later returns is not
	// published twice. The feed tops out at a few thousand rows per year;
	// the map stays small enough that it is never pruned.
	seen map[string]struct{}
	subs []func(Snapshot)

	ready atomic.Bool
}

// NewStore creates a Store. publisher may be nil to disable update publishing.
func NewStore(loader *Loader, publisher UpdatePublisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		loader:    loader,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		seen:      make(map[string]struct{}),
	}
}

// Run performs an initial refresh and then refreshes on the given interval
// until the context is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("feed refresh loop stopping", "reason", ctx.Err())
			return
		case <-ticker.Chan():
			s.Refresh(ctx)
		}
	}
}

// Refresh fetches both feeds concurrently. Each fetch updates its data set
// and notifies subscribers on its own completion.
func (s *Store) Refresh(ctx context.Context) {
	start := s.clock.Now()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.refreshSightings(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refreshActivities(ctx)
	}()
	wg.Wait()

	s.metrics.RefreshDuration.Observe(s.clock.Since(start).Seconds())
	s.ready.Store(true)
}

// Snapshot returns the current data sets and the distinct-years union,
// sorted descending.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Sightings:  s.sightings,
		Activities: s.activities,
		Years:      domain.DistinctYears(s.sightings, s.activities),
	}
}

// Years returns the selectable years, most recent first.
func (s *Store) Years() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DistinctYears(s.sightings, s.activities)
}

// Subscribe registers a callback invoked after each data set update. The
// callback runs on the refreshing goroutine and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// CheckReadiness returns nil once the first refresh cycle has completed,
// regardless of fetch outcome: an empty data set is a served state, not an
// unready one.
func (s *Store) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("feeds have not been fetched yet")
	}
	return nil
}

func (s *Store) refreshSightings(ctx context.Context) {
	sightings := s.loader.LoadSightings(ctx)
	if sightings == nil && s.hasSightings() {
		// Keep the previous data set over an empty fetch result.
		return
	}

	fresh := s.replaceSightings(sightings)
	s.notify()

	if s.publisher != nil && len(fresh) > 0 {
		if err := s.publisher.PublishSightings(ctx, fresh); err != nil {
			s.logger.Warn("publish sighting updates failed", "count", len(fresh), "error", err)
			return
		}
		s.metrics.SightingsPublished.Add(float64(len(fresh)))
	}
}

func (s *Store) refreshActivities(ctx context.Context) {
	activities := s.loader.LoadActivities(ctx)

	s.mu.Lock()
	if activities != nil || s.activities == nil {
		s.activities = activities
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) hasSightings() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sightings) > 0
}

// replaceSightings swaps in the new data set and returns the sightings not
// seen in any earlier refresh.
func (s *Store) replaceSightings(sightings []domain.Sighting) []domain.Sighting {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []domain.Sighting
	for _, sighting := range sightings {
		key := sightingKey(sighting)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		fresh = append(fresh, sighting)
	}
	s.sightings = sightings
	return fresh
}

func (s *Store) notify() {
	snap := s.Snapshot()
	s.mu.RLock()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// sightingKey identifies a sighting across refreshes. The feed has no stable
// row ID, so coordinates plus date plus category stand in for one.
func sightingKey(s domain.Sighting) string {
	return fmt.Sprintf("%.6f|%.6f|%s|%s", s.Latitude, s.Longitude, s.Date, s.Category)
}
