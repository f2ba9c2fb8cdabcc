// ============================================================================
// cpusched Config - YAML configuration with environment overrides
// ============================================================================
//
// Package: internal/config
// File: config.go
//
// Precedence (lowest to highest):
//   1. Built-in defaults (Default)
//   2. YAML file (configs/default.yaml)
//   3. Environment variables prefixed with CPUSCHED_, e.g.
//      CPUSCHED_SIMULATION_QUANTUM=4, CPUSCHED_METRICS_ENABLED=false
//
// Non-positive numeric values are clamped back to their defaults.
//
// ============================================================================

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given
const DefaultPath = "configs/default.yaml"

// EnvPrefix prefixes every environment override
const EnvPrefix = "CPUSCHED_"

// Config represents the complete system configuration structure
type Config struct {
	Simulation struct {
		Algorithm string `yaml:"algorithm" env:"ALGORITHM"`
		Quantum   int    `yaml:"quantum" env:"QUANTUM"`
	} `yaml:"simulation" envPrefix:"SIMULATION_"`

	Worker struct {
		WorkerCount int `yaml:"worker_count" env:"WORKER_COUNT"`
		BufferSize  int `yaml:"buffer_size" env:"BUFFER_SIZE"`
	} `yaml:"worker" envPrefix:"WORKER_"`

	Server struct {
		Port int `yaml:"port" env:"PORT"`
	} `yaml:"server" envPrefix:"SERVER_"`

	Metrics struct {
		Enabled bool `yaml:"enabled" env:"ENABLED"`
		Port    int  `yaml:"port" env:"PORT"`
	} `yaml:"metrics" envPrefix:"METRICS_"`

	Output struct {
		Format string `yaml:"format" env:"FORMAT"`
		Gantt  bool   `yaml:"gantt" env:"GANTT"`
	} `yaml:"output" envPrefix:"OUTPUT_"`

	Log struct {
		Level  string `yaml:"level" env:"LEVEL"`
		Pretty bool   `yaml:"pretty" env:"PRETTY"`
	} `yaml:"log" envPrefix:"LOG_"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Simulation.Algorithm = "fcfs"
	cfg.Simulation.Quantum = 2
	cfg.Worker.WorkerCount = 4
	cfg.Worker.BufferSize = 16
	cfg.Server.Port = 50051
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = 9090
	cfg.Output.Format = "table"
	cfg.Output.Gantt = true
	cfg.Log.Level = "info"
	cfg.Log.Pretty = true
	return cfg
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	cfg.clamp()
	return cfg, nil
}

// sanity clamps
func (c *Config) clamp() {
	def := Default()
	if c.Simulation.Algorithm == "" {
		c.Simulation.Algorithm = def.Simulation.Algorithm
	}
	if c.Simulation.Quantum <= 0 {
		c.Simulation.Quantum = def.Simulation.Quantum
	}
	if c.Worker.WorkerCount <= 0 {
		c.Worker.WorkerCount = def.Worker.WorkerCount
	}
	if c.Worker.BufferSize <= 0 {
		c.Worker.BufferSize = def.Worker.BufferSize
	}
	if c.Server.Port <= 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Metrics.Port <= 0 {
		c.Metrics.Port = def.Metrics.Port
	}
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
