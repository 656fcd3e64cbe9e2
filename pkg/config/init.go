package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# fshandler Configuration File
#
# Environment variables override file values, for example:
#   FSHANDLER_STORAGE_TYPE=objectstore
#   FSHANDLER_LOGGING_LEVEL=DEBUG
#
# storage.type selects the backend (local or objectstore). Only the options
# section of the selected backend is used.

`

// InitConfig writes a default configuration file to the default location.
//
// Returns the path of the written file. Fails if the file already exists
// and force is false.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration file to path, creating
// parent directories as needed.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := generateConfigYAML(GetDefaultConfig())
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateConfigYAML renders cfg with the file header. The layout mirrors
// the mapstructure keys so the output loads back through Load.
func generateConfigYAML(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
			"output": cfg.Logging.Output,
		},
		"storage": map[string]any{
			"type":            cfg.Storage.Type,
			"max_connections": cfg.Storage.MaxConnections,
			"timeout":         cfg.Storage.Timeout.String(),
			"local":           cfg.Storage.Local,
			"objectstore":     cfg.Storage.ObjectStore,
		},
		"metrics": map[string]any{
			"enabled": cfg.Metrics.Enabled,
			"port":    cfg.Metrics.Port,
		},
	}

	body, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}
