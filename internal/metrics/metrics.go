// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client-side pipeline counters. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	ForcedLogouts prometheus.Counter
	Refetches     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskdesk",
			Name:      "backend_requests_total",
			Help:      "Outbound backend requests by method and status code (0 = transport error).",
		}, []string{"method", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskdesk",
			Name:      "backend_request_duration_seconds",
			Help:      "Outbound backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ForcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskdesk",
			Name:      "forced_logouts_total",
			Help:      "Navigations to the login route triggered by a 401 response.",
		}),
		Refetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskdesk",
			Name:      "query_fetches_total",
			Help:      "Query cache fetches by key.",
		}, []string{"key"}),
	}

	reg.MustRegister(m.Requests, m.Latency, m.ForcedLogouts, m.Refetches)
	return m
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.Latency.WithLabelValues(method).Observe(seconds)
}

func (m *Metrics) ForcedLogout() {
	if m == nil {
		return
	}
	m.ForcedLogouts.Inc()
}

func (m *Metrics) Fetch(key string) {
	if m == nil {
		return
	}
	m.Refetches.WithLabelValues(key).Inc()
}
