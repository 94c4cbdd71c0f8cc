package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics counts order core operations by outcome.
type OrderMetrics struct {
	Checkouts   *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// NewOrderMetrics registers and returns the order core's collectors.
func NewOrderMetrics() *OrderMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "order",
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts.",
	}, []string{"result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "order",
		Name:      "status_transitions_total",
		Help:      "Total number of order status transition attempts.",
	}, []string{"to", "result"})

	prometheus.MustRegister(checkouts, transitions)

	return &OrderMetrics{Checkouts: checkouts, Transitions: transitions}
}

// Handler exposes the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
