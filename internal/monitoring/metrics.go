package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the API client's requests. A nil *Metrics is valid
// and records nothing, so tests can pass nil.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// New creates the request metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kusina_api_requests_total",
			Help: "API requests issued, by method, resource and status code.",
		}, []string{"method", "resource", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kusina_api_request_duration_seconds",
			Help:    "API request latency, by resource.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kusina_api_transport_failures_total",
			Help: "Requests that failed before receiving a response.",
		}, []string{"resource"}),
	}

	registry.MustRegister(m.requests, m.duration, m.failures)
	return m
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, resource string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, resource, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObserveFailure records a request that never got a response.
func (m *Metrics) ObserveFailure(resource string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(resource).Inc()
}

// Handler exposes the metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
