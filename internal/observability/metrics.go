package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for dashboard self-monitoring.
// It uses a custom registry to avoid polluting the global default.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec

	// Cluster access metrics
	ClusterCallDuration *prometheus.HistogramVec
	ClusterCallsTotal   *prometheus.CounterVec

	// Aggregation metrics
	AggregateDuration prometheus.Histogram

	// Action metrics
	RestartsTotal *prometheus.CounterVec
	ScalesTotal   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all Prometheus metrics
// registered on a custom registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gamedash_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamedash_http_requests_total",
			Help: "Total number of HTTP requests handled.",
		}, []string{"route", "status"}),

		ClusterCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gamedash_cluster_call_duration_seconds",
			Help:    "Duration of Kubernetes API calls in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		ClusterCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamedash_cluster_calls_total",
			Help: "Total number of Kubernetes API calls.",
		}, []string{"operation", "status"}),

		AggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gamedash_aggregate_duration_seconds",
			Help:    "Duration of deployment tree aggregation in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		RestartsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamedash_restarts_total",
			Help: "Total number of rolling restarts requested.",
		}, []string{"status"}),
		ScalesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamedash_scales_total",
			Help: "Total number of scale actions requested.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
		m.ClusterCallDuration,
		m.ClusterCallsTotal,
		m.AggregateDuration,
		m.RestartsTotal,
		m.ScalesTotal,
	)

	return m
}
