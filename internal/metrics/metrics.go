// Package metrics provides Prometheus metrics for the blog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

var (
	// RpcRequestsTotal counts handled rpc calls by procedure and connect code.
	RpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Total number of handled rpc requests",
		},
		[]string{"procedure", "code"},
	)

	// RpcDuration measures rpc handling time.
	RpcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of rpc requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"procedure"},
	)

	// StorageErrorsTotal counts failures of the content store by operation.
	StorageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Total number of content store failures",
		},
		[]string{"operation"},
	)
)

// RecordRpc records a finished rpc call.
func RecordRpc(procedure, code string, duration float64) {
	RpcRequestsTotal.WithLabelValues(procedure, code).Inc()
	RpcDuration.WithLabelValues(procedure).Observe(duration)
}

// RecordStorageError records a failed content store operation.
func RecordStorageError(operation string) {
	StorageErrorsTotal.WithLabelValues(operation).Inc()
}
