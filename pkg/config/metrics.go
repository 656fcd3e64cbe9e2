package config

import (
	"context"

	"github.com/marmos91/fshandler/pkg/facade"
	"github.com/marmos91/fshandler/pkg/metrics"
)

// MetricsResult contains the metrics components created from configuration.
type MetricsResult struct {
	// StoreMetrics is passed to CreateFilesystem (nil if disabled, which
	// makes the facade use its no-op implementation)
	StoreMetrics facade.Metrics

	enabled bool
	port    int
}

// InitializeMetrics creates the metrics components based on configuration.
//
// If metrics are enabled in the configuration:
//   - Initializes the global Prometheus registry
//   - Creates the Prometheus-backed store metrics
//
// Call it at most once per process.
func InitializeMetrics(cfg *Config) *MetricsResult {
	if !cfg.Metrics.Enabled {
		return &MetricsResult{}
	}

	metrics.InitRegistry()

	return &MetricsResult{
		StoreMetrics: metrics.NewStoreMetrics(),
		enabled:      true,
		port:         cfg.Metrics.Port,
	}
}

// Enabled reports whether metrics collection is on.
func (r *MetricsResult) Enabled() bool {
	return r.enabled
}

// NewServer creates the metrics HTTP server, or nil when metrics are
// disabled. health backs the /healthz endpoint.
func (r *MetricsResult) NewServer(health func(ctx context.Context) bool) *metrics.Server {
	if !r.enabled {
		return nil
	}
	return metrics.NewServer(metrics.ServerConfig{Port: r.port, Health: health})
}

// NewServerOnPort is NewServer with an explicit port override (0 keeps the
// configured port).
func (r *MetricsResult) NewServerOnPort(port int, health func(ctx context.Context) bool) *metrics.Server {
	if !r.enabled {
		return nil
	}
	if port == 0 {
		port = r.port
	}
	return metrics.NewServer(metrics.ServerConfig{Port: port, Health: health})
}
