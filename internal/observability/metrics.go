package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	storeOperationsTotal   *prometheus.CounterVec
	realtimeConnectedGauge prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors. Safe to call more
// than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		storeOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Record store calls by operation, collection and outcome.",
		}, []string{"op", "collection", "outcome"})

		realtimeConnectedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_connected_clients",
			Help: "Number of open push connections.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, storeOperationsTotal, realtimeConnectedGauge)
	})
}

func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

func StoreOperations() *prometheus.CounterVec {
	RegisterMetrics()
	return storeOperationsTotal
}

func RealtimeConnections() prometheus.Gauge {
	RegisterMetrics()
	return realtimeConnectedGauge
}
