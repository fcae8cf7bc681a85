package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides the Prometheus instruments the dispatcher records
// every request against: a counter broken down by method and outcome,
// and a duration histogram broken down by method.
type Metrics struct {
	config MetricsConfig

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given
// configuration. A disabled config returns a no-op instance whose
// Record* methods are safe to call but do nothing.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of dispatched requests, by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of dispatched requests in seconds, by method",
				Buckets:   buckets,
			},
			[]string{"method"},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration)
	return m, nil
}

// RecordDispatch records one dispatched request's outcome. Latency is
// recorded separately by ObserveDuration.
func (m *Metrics) RecordDispatch(method, outcome string) {
	if m.requestsTotal == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, outcome).Inc()
}

// ObserveDuration records how long a dispatched request took.
func (m *Metrics) ObserveDuration(method string, d time.Duration) {
	if m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// StartMetricsServer starts an HTTP server exposing /metrics, if
// metrics are enabled. It returns immediately; the server runs in a
// background goroutine.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = server.ListenAndServe()
	}()

	return nil
}

// Timer is a convenience wrapper for timing an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
