package metrics

import (
	"time"

	"github.com/marmos91/fshandler/pkg/facade"
	"github.com/marmos91/fshandler/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeMetrics is the Prometheus implementation of facade.Metrics.
type storeMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTotal        *prometheus.CounterVec
	healthy           *prometheus.GaugeVec
}

// NewStoreMetrics creates a Prometheus-backed facade.Metrics on the global
// registry.
//
// Returns nil if metrics are not enabled (InitRegistry not called), which
// makes the facade use its no-op implementation. Call it once per registry:
// registering the same collectors twice panics.
func NewStoreMetrics() facade.Metrics {
	if !IsEnabled() {
		return nil
	}
	return newStoreMetrics(GetRegistry())
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	return &storeMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fshandler_store_operations_total",
				Help: "Total number of storage operations by backend, operation and status",
			},
			[]string{"backend", "operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fshandler_store_operation_duration_seconds",
				Help: "Duration of storage operations in seconds",
				Buckets: []float64{
					0.0005, // 500us
					0.001,  // 1ms
					0.005,  // 5ms
					0.01,   // 10ms
					0.05,   // 50ms
					0.1,    // 100ms
					0.5,    // 500ms
					1.0,    // 1s
					5.0,    // 5s
					30.0,   // 30s
				},
			},
			[]string{"backend", "operation"},
		),
		bytesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fshandler_store_bytes_total",
				Help: "Total bytes moved through content streams",
			},
			[]string{"backend", "direction"}, // read or write
		),
		healthy: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fshandler_store_healthy",
				Help: "Result of the latest health probe (1 healthy, 0 unhealthy)",
			},
			[]string{"backend"},
		),
	}
}

// ObserveOperation implements facade.Metrics.ObserveOperation.
//
// The status label is "success" or the error code name ("NotFound",
// "InvalidPath", ...), so contract errors can be told apart from medium
// failures.
func (m *storeMetrics) ObserveOperation(backend, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = store.CodeOf(err).String()
	}

	m.operationsTotal.WithLabelValues(backend, operation, status).Inc()
	m.operationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordBytes implements facade.Metrics.RecordBytes
func (m *storeMetrics) RecordBytes(backend, direction string, bytes int64) {
	m.bytesTotal.WithLabelValues(backend, direction).Add(float64(bytes))
}

// SetHealthy implements facade.Metrics.SetHealthy
func (m *storeMetrics) SetHealthy(backend string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.healthy.WithLabelValues(backend).Set(value)
}
