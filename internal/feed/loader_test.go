package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/observability"
)

const testFeedCSV = "OBJECTID,Ohrozenie,Datum,Poznamka,DruhOhrozenia,OhrozenieDetail,Hodina,Y,X\n" +
	`1,vizuálny kontakt,2024-05-01,,,,,"49,100","20,200"` + "\n" +
	`2,pobytové znaky,2024-06-01,,,,,"49,200","20,300"` + "\n" +
	`3,útok,2024-07-01,,,,,0,0` + "\n"

const testActivityJSON = `[{"latitude":49.1,"longitude":19.2,"date":"12. máj 2024","description":"d","utok":false,"year":2024}]`

func newTestLoader(t *testing.T, sightingURL, activityURL string) *Loader {
	t.Helper()
	return NewLoader(sightingURL, activityURL, time.Second, slog.Default(), observability.NewMetricsForTesting())
}

func TestLoader_LoadSightings(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(testFeedCSV)) //nolint:errcheck
		}))
		defer srv.Close()

		sightings := newTestLoader(t, srv.URL, "").LoadSightings(context.Background())
		require.Len(t, sightings, 2, "zero-coordinate row dropped")
		assert.Equal(t, domain.CategoryObservation, sightings[0].Category)
		assert.Equal(t, domain.CategoryPresenceSigns, sightings[1].Category)
	})

	t.Run("fetch failure is non-fatal", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close()

		sightings := newTestLoader(t, srv.URL, "").LoadSightings(context.Background())
		assert.Empty(t, sightings)
	})

	t.Run("http error status is non-fatal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		assert.Empty(t, newTestLoader(t, srv.URL, "").LoadSightings(context.Background()))
	})

	t.Run("blank lines are not counted as dropped rows", func(t *testing.T) {
		feedWithBlanks := "OBJECTID,Ohrozenie,Datum,Poznamka,DruhOhrozenia,OhrozenieDetail,Hodina,Y,X\n" +
			`1,vizuálny kontakt,2024-05-01,,,,,"49,100","20,200"` + "\n" +
			"\n" +
			`2,pobytové znaky,2024-06-01,,,,,"49,200","20,300"` + "\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(feedWithBlanks)) //nolint:errcheck
		}))
		defer srv.Close()

		metrics := observability.NewMetricsForTesting()
		loader := NewLoader(srv.URL, "", time.Second, slog.Default(), metrics)

		sightings := loader.LoadSightings(context.Background())
		require.Len(t, sightings, 2)
		assert.Zero(t, testutil.ToFloat64(metrics.SightingRowsDropped))
	})
}

func TestLoader_LoadActivities(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(testActivityJSON)) //nolint:errcheck
		}))
		defer srv.Close()

		activities := newTestLoader(t, "", srv.URL).LoadActivities(context.Background())
		require.Len(t, activities, 1)
		assert.Equal(t, 2024, activities[0].Year)
	})

	t.Run("malformed JSON is non-fatal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("{broken")) //nolint:errcheck
		}))
		defer srv.Close()

		assert.Empty(t, newTestLoader(t, "", srv.URL).LoadActivities(context.Background()))
	})
}

// --- store ---

type recordingPublisher struct {
	mu        sync.Mutex
	published [][]domain.Sighting
}

func (p *recordingPublisher) PublishSightings(_ context.Context, s []domain.Sighting) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, s)
	return nil
}

func (p *recordingPublisher) batches() [][]domain.Sighting {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published
}

func TestStore_Refresh(t *testing.T) {
	sightingSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testFeedCSV)) //nolint:errcheck
	}))
	defer sightingSrv.Close()
	activitySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testActivityJSON)) //nolint:errcheck
	}))
	defer activitySrv.Close()

	loader := newTestLoader(t, sightingSrv.URL, activitySrv.URL)
	publisher := &recordingPublisher{}
	store := NewStore(loader, publisher, slog.Default(), observability.NewMetricsForTesting(), nil)

	var notifications atomic.Int32
	store.Subscribe(func(Snapshot) { notifications.Add(1) })

	require.Error(t, store.CheckReadiness(context.Background()), "not ready before first refresh")

	store.Refresh(context.Background())

	require.NoError(t, store.CheckReadiness(context.Background()))
	snap := store.Snapshot()
	assert.Len(t, snap.Sightings, 2)
	assert.Len(t, snap.Activities, 1)
	assert.Contains(t, snap.Years, "2024")
	assert.GreaterOrEqual(t, notifications.Load(), int32(2), "each feed notifies independently")

	// First refresh publishes every sighting as new.
	batches := publisher.batches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)

	// A second refresh with identical data publishes nothing new.
	store.Refresh(context.Background())
	assert.Len(t, publisher.batches(), 1)
}

func TestStore_EmptyFetchKeepsPreviousData(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testFeedCSV)) //nolint:errcheck
	}))
	defer srv.Close()

	loader := newTestLoader(t, srv.URL, srv.URL)
	store := NewStore(loader, nil, slog.Default(), observability.NewMetricsForTesting(), nil)

	store.Refresh(context.Background())
	require.Len(t, store.Snapshot().Sightings, 2)

	mu.Lock()
	fail = true
	mu.Unlock()

	store.Refresh(context.Background())
	assert.Len(t, store.Snapshot().Sightings, 2, "previous data survives a failed refresh")
}

func TestStore_ReadyEvenWhenFeedsFail(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	loader := newTestLoader(t, srv.URL, srv.URL)
	store := NewStore(loader, nil, slog.Default(), observability.NewMetricsForTesting(), nil)

	store.Refresh(context.Background())
	assert.NoError(t, store.CheckReadiness(context.Background()), "empty data set is a served state")
	assert.Empty(t, store.Snapshot().Sightings)
}
