// Package feed fetches and holds the sighting and activity data sets. Feed
// trouble is never fatal: a failed or empty fetch yields an empty data set
// and the map keeps serving whatever else it has.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/observability"
)

// Loader fetches the two feeds over plain HTTP GET.
type Loader struct {
	sightingURL string
	activityURL string
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewLoader creates a Loader with the given feed endpoints and timeout.
func NewLoader(sightingURL, activityURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		sightingURL: sightingURL,
		activityURL: activityURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		metrics:     metrics,
	}
}

// LoadSightings fetches and parses the delimited sighting feed. Failure is
// logged and yields an empty slice.
func (l *Loader) LoadSightings(ctx context.Context) []domain.Sighting {
	raw, err := l.fetch(ctx, l.sightingURL)
	if err != nil {
		l.logger.Warn("sighting feed fetch failed, serving empty set", "url", l.sightingURL, "error", err)
		l.metrics.FeedFetches.WithLabelValues("sightings", "error").Inc()
		return nil
	}
	l.metrics.FeedFetches.WithLabelValues("sightings", "success").Inc()

	text := string(raw)
	sightings := domain.ParseSightingFeed(text)

	if rows := dataRowCount(text); rows > len(sightings) {
		l.metrics.SightingRowsDropped.Add(float64(rows - len(sightings)))
	}
	l.metrics.FeedRecords.WithLabelValues("sightings").Set(float64(len(sightings)))
	l.logger.Info("sighting feed loaded", "records", len(sightings))
	return sightings
}

// LoadActivities fetches and parses the JSON activity feed. Network or parse
// failure is logged and yields an empty slice.
func (l *Loader) LoadActivities(ctx context.Context) []domain.Activity {
	raw, err := l.fetch(ctx, l.activityURL)
	if err != nil {
		l.logger.Warn("activity feed fetch failed, serving empty set", "url", l.activityURL, "error", err)
		l.metrics.FeedFetches.WithLabelValues("activities", "error").Inc()
		return nil
	}

	activities, err := domain.ParseActivityFeed(raw)
	if err != nil {
		l.logger.Warn("activity feed unparseable, serving empty set", "url", l.activityURL, "error", err)
		l.metrics.FeedFetches.WithLabelValues("activities", "error").Inc()
		return nil
	}

	l.metrics.FeedFetches.WithLabelValues("activities", "success").Inc()
	l.metrics.FeedRecords.WithLabelValues("activities").Set(float64(len(activities)))
	l.logger.Info("activity feed loaded", "records", len(activities))
	return activities
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return body, nil
}

// dataRowCount counts non-blank data rows so the dropped-rows metric only
// reflects rows the parser actually rejected.
func dataRowCount(text string) int {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return 0
	}
	rows := 0
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) != "" {
			rows++
		}
	}
	return rows
}
