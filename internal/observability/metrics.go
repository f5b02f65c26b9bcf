package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "disaster_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	RiskAssessments *prometheus.CounterVec // labels: level={Low,Medium,High}

	// Upstream provider calls.
	UpstreamRequests *prometheus.CounterVec   // labels: provider, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: provider

	// Caches: elevation/geocode LRUs and the Redis response cache.
	CacheLookups *prometheus.CounterVec // labels: cache, result={hit,miss}

	// Batch endpoints.
	HeatmapPointsSkipped prometheus.Counter
	HeatmapDuration      prometheus.Histogram
	StatesSkipped        *prometheus.CounterVec // labels: kind={temperature,pollution}

	// Kafka publishing and the alert poller.
	MessagesPublished  *prometheus.CounterVec // labels: topic
	PublishErrors      *prometheus.CounterVec // labels: topic
	AlertPollRuns      *prometheus.CounterVec // labels: outcome={success,error}
	AlertPollerRunning prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RiskAssessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_assessments_total",
			Help:      "Risk predictions computed, by level.",
		}, []string{"level"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Third-party API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Third-party API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result.",
		}, []string{"cache", "result"}),
		HeatmapPointsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heatmap_points_skipped_total",
			Help:      "Grid points dropped from a heatmap because their readings failed.",
		}),
		HeatmapDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "heatmap_duration_seconds",
			Help:      "Time to build one risk heatmap.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		StatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "india_heatmap_states_skipped_total",
			Help:      "States dropped from an India heatmap because their readings failed.",
		}, []string{"kind"}),
		MessagesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Messages written to Kafka, by topic.",
		}, []string{"topic"}),
		PublishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka writes, by topic.",
		}, []string{"topic"}),
		AlertPollRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_poll_runs_total",
			Help:      "Alert poller runs by outcome.",
		}, []string{"outcome"}),
		AlertPollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_poller_running",
			Help:      "1 when the alert poller is scheduled, 0 when stopped.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RiskAssessments,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.HeatmapPointsSkipped,
		m.HeatmapDuration,
		m.StatesSkipped,
		m.MessagesPublished,
		m.PublishErrors,
		m.AlertPollRuns,
		m.AlertPollerRunning,
	}
}
