package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncSnapshotHits()
	IncSnapshotMisses()
	ObserveSnapshotBuild(duration time.Duration)
	IncPipelineFailures(stage string)
	IncProviderCalls(endpoint string)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	snapshotHits     prometheus.Counter
	snapshotMisses   prometheus.Counter
	snapshotBuild    prometheus.Histogram
	pipelineFailures *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSnapshotHits() {
	m.snapshotHits.Inc()
}

func (m *MetricsProvider) IncSnapshotMisses() {
	m.snapshotMisses.Inc()
}

func (m *MetricsProvider) ObserveSnapshotBuild(duration time.Duration) {
	m.snapshotBuild.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPipelineFailures(stage string) {
	m.pipelineFailures.WithLabelValues(stage).Inc()
}

func (m *MetricsProvider) IncProviderCalls(endpoint string) {
	m.providerCalls.WithLabelValues(endpoint).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider() MetricsProviderInterface {
	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sb_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sb_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		snapshotHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sb_snapshot_cache_hits_total",
			Help: "Leaderboard requests served from the cached snapshot",
		}),

		snapshotMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sb_snapshot_cache_misses_total",
			Help: "Leaderboard requests that triggered a snapshot rebuild",
		}),

		snapshotBuild: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sb_snapshot_build_duration_seconds",
			Help:    "Duration of full leaderboard aggregation passes",
			Buckets: prometheus.DefBuckets,
		}),

		pipelineFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sb_pipeline_failures_total",
			Help: "Per-athlete pipeline failures by stage",
		}, []string{"stage"}),

		providerCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sb_provider_calls_total",
			Help: "Outbound calls to the activity provider by endpoint",
		}, []string{"endpoint"}),
	}
}

// noopMetrics is used when metrics are not wired, e.g. in tests.
type noopMetrics struct{}

func NewNoopMetrics() MetricsProviderInterface { return &noopMetrics{} }

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncSnapshotHits()                                 {}
func (n *noopMetrics) IncSnapshotMisses()                               {}
func (n *noopMetrics) ObserveSnapshotBuild(_ time.Duration)             {}
func (n *noopMetrics) IncPipelineFailures(_ string)                     {}
func (n *noopMetrics) IncProviderCalls(_ string)                        {}
