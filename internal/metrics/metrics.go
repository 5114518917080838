// Package metrics exposes the `/metrics` Prometheus endpoint (a
// SPEC_FULL.md addition): counters for orders accepted/rejected and trades
// executed, labelled per symbol.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every counter this service exports, bound to its own
// registry rather than the global default so multiple instances (e.g. one
// per test) never collide on duplicate registration.
type Collector struct {
	registry     *prometheus.Registry
	OrdersTotal  *prometheus.CounterVec
	TradesTotal  *prometheus.CounterVec
	CancelsTotal *prometheus.CounterVec
}

// New builds and registers a fresh collector against its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		OrdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matchbook",
				Subsystem: "orders",
				Name:      "total",
				Help:      "Total number of orders submitted, by symbol and outcome.",
			},
			[]string{"symbol", "outcome"},
		),
		TradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matchbook",
				Subsystem: "trades",
				Name:      "total",
				Help:      "Total number of trades executed, by symbol.",
			},
			[]string{"symbol"},
		),
		CancelsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matchbook",
				Subsystem: "orders",
				Name:      "cancels_total",
				Help:      "Total number of successful cancellations, by symbol.",
			},
			[]string{"symbol"},
		),
	}

	c.registry.MustRegister(c.OrdersTotal, c.TradesTotal, c.CancelsTotal)
	return c
}

// Handler serves the Prometheus exposition format for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveOrder records one PlaceOrder call's outcome ("accepted" or
// "rejected").
func (c *Collector) ObserveOrder(symbol, outcome string, trades int) {
	c.OrdersTotal.WithLabelValues(symbol, outcome).Inc()
	if trades > 0 {
		c.TradesTotal.WithLabelValues(symbol).Add(float64(trades))
	}
}

// ObserveCancel records one successful CancelOrder call.
func (c *Collector) ObserveCancel(symbol string) {
	c.CancelsTotal.WithLabelValues(symbol).Inc()
}
