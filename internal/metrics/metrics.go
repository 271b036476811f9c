package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// POSMetrics holds the terminal's Prometheus collectors.
type POSMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	CartMutations *prometheus.CounterVec
	CartItems     prometheus.Gauge
	Checkouts     *prometheus.CounterVec
}

// New registers and returns the POS metrics on the given registerer.
func New(service string, reg prometheus.Registerer) *POSMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acmeshop",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "acmeshop",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acmeshop",
		Subsystem: service,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations by operation.",
	}, []string{"op"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "acmeshop",
		Subsystem: service,
		Name:      "cart_items",
		Help:      "Current total quantity across cart line items.",
	})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acmeshop",
		Subsystem: service,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts by outcome.",
	}, []string{"outcome"})

	reg.MustRegister(requests, latency, cartMutations, cartItems, checkouts)
	return &POSMetrics{
		Requests:      requests,
		LatencyMS:     latency,
		CartMutations: cartMutations,
		CartItems:     cartItems,
		Checkouts:     checkouts,
	}
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
