// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the site backend.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	errorsTotal     prometheus.Counter
	gateDecisions   *prometheus.CounterVec
	liveResolutions *prometheus.CounterVec
	overlayClients  prometheus.Gauge
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sanctuary_http_requests_total",
		Help: "Total number of HTTP requests by method and status class",
	}, []string{"method", "class"})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sanctuary_http_errors_total",
		Help: "Total number of HTTP responses with status >= 400",
	})
	gateDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sanctuary_gate_decisions_total",
		Help: "Admin gate decisions by outcome",
	}, []string{"decision"})
	liveResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sanctuary_live_resolutions_total",
		Help: "Live embed resolutions by outcome (live, none, malformed)",
	}, []string{"outcome"})
	overlayClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sanctuary_overlay_clients",
		Help: "Connected watch-live overlay clients",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		gateDecisions,
		liveResolutions,
		overlayClients,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		requestsTotal:   requestsTotal,
		errorsTotal:     errorsTotal,
		gateDecisions:   gateDecisions,
		liveResolutions: liveResolutions,
		overlayClients:  overlayClients,
	}
}

func (m *Metrics) IncRequests(method string, status int) {
	m.requestsTotal.WithLabelValues(method, statusClass(status)).Inc()
}

func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ObserveGateDecision counts a gate outcome ("render", "redirect", ...).
func (m *Metrics) ObserveGateDecision(decision string) {
	m.gateDecisions.WithLabelValues(decision).Inc()
}

// ObserveLiveResolution counts a live embed outcome.
func (m *Metrics) ObserveLiveResolution(outcome string) {
	m.liveResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetOverlayClients(n int) {
	m.overlayClients.Set(float64(n))
}

// Registry exposes the registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
