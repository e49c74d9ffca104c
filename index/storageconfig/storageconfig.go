// Package storageconfig loads a storage driver name plus its flat
// string config map from YAML, the format a host's config file uses
// to pick and configure an index/storage driver without the core
// importing a specific one.
package storageconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config names a storage driver and its open() parameters.
type Config struct {
	Driver string            `yaml:"driver"`
	Params map[string]string `yaml:"params"`
}

// Load reads and parses a storage config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storageconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("storageconfig: parse %s: %w", path, err)
	}
	if cfg.Driver == "" {
		return nil, fmt.Errorf("storageconfig: %s: missing \"driver\"", path)
	}
	return &cfg, nil
}
