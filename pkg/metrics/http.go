package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latency per route pattern.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
	reg.MustRegister(duration, requests, inFlight)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
		inFlight: inFlight,
	}
}

// Start marks a request as in flight and returns the matching completion callback.
func (m *HTTPMetrics) Start() func(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.inFlight == nil {
		return func(string, string, int, time.Duration) {}
	}
	m.inFlight.Inc()
	return func(method, route string, status int, elapsed time.Duration) {
		m.inFlight.Dec()
		route = normalizeLabel(route)
		m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
		m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
}
