package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the HTTP surface and the
// audit pipeline. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Pipeline metrics
	StageDuration   *prometheus.HistogramVec
	Fallbacks       *prometheus.CounterVec
	AuditsTotal     prometheus.Counter
	RankHistogram   prometheus.Histogram
	PersistFailures prometheus.Counter

	startTime time.Time
}

// NewMetrics creates a collector set on a fresh registry, including the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leo_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leo_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leo_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leo_stage_duration_seconds",
				Help:    "Audit stage duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"stage"},
		),
		Fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leo_fallbacks_total",
				Help: "Times a collaborator failure was replaced by local behavior",
			},
			[]string{"collaborator", "reason"},
		),
		AuditsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "leo_audits_total",
				Help: "Total number of completed audits",
			},
		),
		RankHistogram: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leo_rank",
				Help:    "Distribution of LEO ranks",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		PersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "leo_persist_failures_total",
				Help: "Score writes that failed and were skipped",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "leo_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveFallback counts a collaborator failure that was absorbed.
func (m *Metrics) ObserveFallback(collaborator, reason string) {
	m.Fallbacks.WithLabelValues(collaborator, reason).Inc()
}

// ObserveAudit records a finished audit and its rank.
func (m *Metrics) ObserveAudit(rank float64) {
	m.AuditsTotal.Inc()
	m.RankHistogram.Observe(rank)
}

// ObservePersistFailure counts a swallowed score write failure.
func (m *Metrics) ObservePersistFailure() {
	m.PersistFailures.Inc()
}
