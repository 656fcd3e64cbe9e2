package config

import (
	"strings"
	"time"
)

const (
	// DefaultMaxConnections is the default S3 connection bound
	DefaultMaxConnections = 50

	// DefaultTimeout is the default S3 request timeout
	DefaultTimeout = 60 * time.Second

	// DefaultMetricsPort is the default metrics server port
	DefaultMetricsPort = 9090
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Option keys are only added when absent, for every backend kind, so a
//     generated config file documents all of them
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStorageDefaults(&cfg.Storage)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	// stdout carries command output
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyStorageDefaults sets storage defaults.
func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.Type == "" {
		cfg.Type = "local"
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = DefaultMaxConnections
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Local == nil {
		cfg.Local = make(map[string]any)
	}
	if cfg.ObjectStore == nil {
		cfg.ObjectStore = make(map[string]any)
	}

	setDefault(cfg.Local, "path", "/tmp/fshandler")

	setDefault(cfg.ObjectStore, "driver", "s3")
	setDefault(cfg.ObjectStore, "bucket", "fshandler")
	setDefault(cfg.ObjectStore, "list_page_size", 1000)
	setDefault(cfg.ObjectStore, "requests_per_second", 0)
	setDefault(cfg.ObjectStore, "burst", 0)
	setDefault(cfg.ObjectStore, "s3", map[string]any{
		"region":            "us-east-1",
		"endpoint":          "",
		"access_key_id":     "",
		"secret_access_key": "",
		"force_path_style":  false,
		"max_retries":       10,
	})
	setDefault(cfg.ObjectStore, "badger", map[string]any{
		"path":      "/tmp/fshandler-objects",
		"in_memory": false,
	})
}

// applyMetricsDefaults sets metrics defaults. Enabled defaults to false.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultMetricsPort
	}
}

func setDefault(options map[string]any, key string, value any) {
	if _, ok := options[key]; !ok {
		options[key] = value
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
