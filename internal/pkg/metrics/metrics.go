// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds the storefront's prometheus collectors
type Metrics struct {
	Requests           *prometheus.CounterVec
	LatencyMS          *prometheus.HistogramVec
	CartOperations     *prometheus.CounterVec
	ActiveSessions     prometheus.Gauge
	CheckoutsSubmitted prometheus.Counter
	CheckoutsCompleted prometheus.Counter
	CheckoutsCancelled prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route"}),
		CartOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart store operations by kind.",
		}, []string{"operation"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live browser sessions.",
		}),
		CheckoutsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "submitted_total",
			Help:      "Checkout forms accepted.",
		}),
		CheckoutsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "completed_total",
			Help:      "Deferred cart clears that ran.",
		}),
		CheckoutsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "cancelled_total",
			Help:      "Deferred cart clears cancelled before firing.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Requests,
		m.LatencyMS,
		m.CartOperations,
		m.ActiveSessions,
		m.CheckoutsSubmitted,
		m.CheckoutsCompleted,
		m.CheckoutsCancelled,
	)
	return m
}

// NewNop returns metrics backed by a private registry, for tests and tools
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler serves the registered collectors in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
