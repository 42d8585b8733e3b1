// Package config loads kernel-level tunables: worker pool sizing, worker
// queue depth, default device selection and log level.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables an Engine needs before it can wire up a bus,
// registry, graph and executor.
type Config struct {
	WorkerCount    int    `yaml:"worker_count"`
	WorkerQueue    int    `yaml:"worker_queue"`
	DefaultDevice  string `yaml:"default_device"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns the configuration an Engine uses when no file is
// supplied.
func Default() Config {
	return Config{
		WorkerCount:   2,
		WorkerQueue:   64,
		DefaultDevice: "",
		LogLevel:      "info",
	}
}

// Load reads and parses a YAML configuration file, filling unset fields
// from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
