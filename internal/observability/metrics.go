package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation pipeline.
type Metrics struct {
	SourceFetches  *prometheus.CounterVec // labels: source, outcome={live,fallback,empty,error}
	RecordsSkipped *prometheus.CounterVec // labels: source, reason={parse,magnitude}
	FetchRetries   prometheus.Counter

	// Media enrichment metrics.
	MediaLookups *prometheus.CounterVec // labels: kind={image,video}, outcome={success,empty,error}
	MediaEnabled prometheus.Gauge

	// Request-level metrics.
	RequestDuration prometheus.Histogram
	EventsReturned  prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meteor_watch",
			Name:      "source_fetches_total",
			Help:      "Upstream source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meteor_watch",
			Name:      "records_skipped_total",
			Help:      "Raw records dropped during normalization by source and reason.",
		}, []string{"source", "reason"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteor_watch",
			Name:      "fetch_retries_total",
			Help:      "Outbound HTTP attempts retried after 429 or transport errors.",
		}),
		MediaLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meteor_watch",
			Name:      "media_lookups_total",
			Help:      "Media search API lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		MediaEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "meteor_watch",
			Name:      "media_enabled",
			Help:      "1 when media enrichment is enabled, 0 otherwise.",
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteor_watch",
			Name:      "aggregate_duration_seconds",
			Help:      "Duration of one complete fetch-normalize-enrich cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteor_watch",
			Name:      "events_returned",
			Help:      "Number of meteor events in a response.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200},
		}),
	}

	prometheus.MustRegister(
		m.SourceFetches,
		m.RecordsSkipped,
		m.FetchRetries,
		m.MediaLookups,
		m.MediaEnabled,
		m.RequestDuration,
		m.EventsReturned,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourceFetches:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "meteor_watch", Name: "source_fetches_total"}, []string{"source", "outcome"}),
		RecordsSkipped:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "meteor_watch", Name: "records_skipped_total"}, []string{"source", "reason"}),
		FetchRetries:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteor_watch", Name: "fetch_retries_total"}),
		MediaLookups:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "meteor_watch", Name: "media_lookups_total"}, []string{"kind", "outcome"}),
		MediaEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "meteor_watch", Name: "media_enabled"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteor_watch", Name: "aggregate_duration_seconds"}),
		EventsReturned:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteor_watch", Name: "events_returned"}),
	}
}
