package instrumented

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	bytes      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fsenv_storage_operations_total",
			Help: "Storage operations by operation and result.",
		}, []string{"op", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fsenv_storage_operation_duration_seconds",
			Help:    "Storage operation latency.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fsenv_storage_bytes_total",
			Help: "Bytes read or written by storage operations.",
		}, []string{"op"}),
	}
}
