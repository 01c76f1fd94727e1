package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gateway's Prometheus instruments on a dedicated
// registry so the management listener only exposes drawbridge series.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec
	rateLimitedTotal *prometheus.CounterVec
	inflightRequests prometheus.Gauge
}

// NewMetrics creates and registers the gateway instruments.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drawbridge",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Requests handled by the public listener, by route and status code",
	}, []string{"route", "code"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "drawbridge",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Request latency as observed at the edge, by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	m.upstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drawbridge",
		Subsystem: "gateway",
		Name:      "upstream_errors_total",
		Help:      "Proxy attempts that failed before the upstream responded, by route",
	}, []string{"route"})

	m.rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drawbridge",
		Subsystem: "gateway",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by a route rate limit",
	}, []string{"route"})

	m.inflightRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "drawbridge",
		Subsystem: "gateway",
		Name:      "inflight_requests",
		Help:      "Requests currently being handled by the public listener",
	})

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.upstreamErrors,
		m.rateLimitedTotal,
		m.inflightRequests,
	)

	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(route string, code int, seconds float64) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// ObserveUpstreamError records a proxy attempt that never got a response.
func (m *Metrics) ObserveUpstreamError(route string) {
	m.upstreamErrors.WithLabelValues(route).Inc()
}

// ObserveRateLimited records a request rejected by a route limit.
func (m *Metrics) ObserveRateLimited(route string) {
	m.rateLimitedTotal.WithLabelValues(route).Inc()
}
