package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map
// service.
type Metrics struct {
	FeedFetches         *prometheus.CounterVec // labels: feed={sightings,activities}, outcome={success,error}
	FeedRecords         *prometheus.GaugeVec   // labels: feed={sightings,activities}
	SightingRowsDropped prometheus.Counter
	RefreshDuration     prometheus.Histogram

	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,no_result,error}

	MarkersDrawn   *prometheus.GaugeVec // labels: layer={sightings,citizen_reports,activities}
	SessionsActive prometheus.Gauge

	SightingsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedRecords,
		m.SightingRowsDropped,
		m.RefreshDuration,
		m.GeocodeRequests,
		m.MarkersDrawn,
		m.SessionsActive,
		m.SightingsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests avoid "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sighting_map",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sighting_map",
			Name:      "feed_records",
			Help:      "Records held in memory per feed after the last refresh.",
		}, []string{"feed"}),
		SightingRowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sighting_map",
			Name:      "sighting_rows_dropped_total",
			Help:      "Feed rows dropped for invalid coordinates or shape.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sighting_map",
			Name:      "feed_refresh_duration_seconds",
			Help:      "Duration of a feed fetch-and-parse cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sighting_map",
			Name:      "geocode_requests_total",
			Help:      "Location search requests by outcome.",
		}, []string{"outcome"}),
		MarkersDrawn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sighting_map",
			Name:      "markers_drawn",
			Help:      "Markers currently drawn per layer, summed over sessions.",
		}, []string{"layer"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sighting_map",
			Name:      "sessions_active",
			Help:      "Live map sessions.",
		}),
		SightingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sighting_map",
			Name:      "sightings_published_total",
			Help:      "Newly seen sightings published to the update topic.",
		}),
	}
}
