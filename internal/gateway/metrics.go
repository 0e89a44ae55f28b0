package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's Prometheus collectors on a private
// registry, keeping test instances independent of each other.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	chatTurns    *prometheus.CounterVec
	chatDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the gateway collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proghelper_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proghelper_chat_turns_total",
			Help: "Chat dispatches by provider and outcome.",
		}, []string{"provider", "outcome"}),
		chatDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proghelper_chat_duration_seconds",
			Help:    "End-to-end chat handling duration.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 11),
		}, []string{"provider"}),
	}

	m.registry.MustRegister(m.requests, m.chatTurns, m.chatDuration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest counts one finished HTTP request.
func (m *Metrics) RecordRequest(route string, status int) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordChat counts one chat dispatch and its duration.
func (m *Metrics) RecordChat(provider, outcome string, elapsed time.Duration) {
	m.chatTurns.WithLabelValues(provider, outcome).Inc()
	m.chatDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
