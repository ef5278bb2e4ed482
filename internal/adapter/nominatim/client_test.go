package nominatim

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

func TestClient_Search(t *testing.T) {
	t.Run("single result", func(t *testing.T) {
		var gotQuery, gotLimit string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotLimit = r.URL.Query().Get("limit")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"lat":"49.2215","lon":"18.7408","display_name":"Žilina, Slovensko"}]`)) //nolint:errcheck
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second, slog.Default())
		result, err := c.Search(context.Background(), "Žilina")

		require.NoError(t, err)
		assert.Equal(t, 49.2215, result.Lat)
		assert.Equal(t, 18.7408, result.Lon)
		assert.Equal(t, "Žilina, Slovensko", result.DisplayName)
		assert.Equal(t, "Žilina, Slovakia", gotQuery, "country qualifier appended")
		assert.Equal(t, "1", gotLimit)
	})

	t.Run("no result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`[]`)) //nolint:errcheck
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second, slog.Default())
		_, err := c.Search(context.Background(), "Nowheresville")

		require.ErrorIs(t, err, domain.ErrNoResult)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second, slog.Default())
		_, err := c.Search(context.Background(), "Poprad")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // refuse connections

		c := NewClient(srv.URL, time.Second, slog.Default())
		_, err := c.Search(context.Background(), "Poprad")
		require.Error(t, err)
	})
}

// --- cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodeResult
	err    error
}

func (m *countingGeocoder) Search(_ context.Context, _ string) (domain.GeocodeResult, error) {
	m.calls++
	return m.result, m.err
}

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodeResult{Lat: 49.0, Lon: 19.0, DisplayName: "Martin"}}
	cached := NewCachedGeocoder(inner, 10)

	r1, err := cached.Search(context.Background(), "Martin")
	require.NoError(t, err)
	assert.Equal(t, "Martin", r1.DisplayName)

	// Key is normalized: same place, different spacing/case.
	_, err = cached.Search(context.Background(), "  martin ")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_NoResultNotCached(t *testing.T) {
	inner := &countingGeocoder{err: domain.ErrNoResult}
	cached := NewCachedGeocoder(inner, 10)

	_, err := cached.Search(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrNoResult)

	_, err = cached.Search(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrNoResult)

	assert.Equal(t, 2, inner.calls, "failures must stay retryable")
}

func TestCachedGeocoder_Eviction(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodeResult{DisplayName: "x"}}
	cached := NewCachedGeocoder(inner, 2)

	for _, q := range []string{"a", "b", "c"} {
		_, err := cached.Search(context.Background(), q)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)

	// "a" was evicted (LRU), "c" is still cached.
	_, err := cached.Search(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)

	_, err = cached.Search(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)
}

func TestCachedGeocoder_ErrorPropagates(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := NewCachedGeocoder(inner, 10)

	_, err := cached.Search(context.Background(), "Martin")
	require.Error(t, err)
}
