package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlantic_requests_total",
			Help: "Total requests sent to the Atlantic API",
		},
		[]string{"endpoint", "status"}, // status: success, error, http_error
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlantic_request_seconds",
			Help:    "Time spent waiting for the Atlantic API",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"endpoint"},
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total price list cache operations",
		},
		[]string{"type", "result"}, // type: get, set; result: hit, miss, success
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_store_operations_total",
			Help: "Total order store operations",
		},
		[]string{"operation", "status"},
	)

	OrderEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_total",
			Help: "Total order events published",
		},
		[]string{"event", "status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPResponseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "HTTP response time",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)
)

// ObserveStore records the outcome of an order store operation.
func ObserveStore(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(operation, status).Inc()
}
