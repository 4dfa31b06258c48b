// Package config loads demo configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogMode      string `env:"SLICESTORE_LOG_MODE" envDefault:"development"`
	StoreID      string `env:"SLICESTORE_STORE_ID" envDefault:"demo"`
	SeedFile     string `env:"SLICESTORE_SEED"`
	ExportFormat string `env:"SLICESTORE_EXPORT" envDefault:"json"`
	MetricsAddr  string `env:"SLICESTORE_METRICS_ADDR"`

	TickInterval time.Duration `env:"SLICESTORE_TICK_INTERVAL" envDefault:"500ms"`
	Ticks        int           `env:"SLICESTORE_TICKS" envDefault:"10"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.ExportFormat) {
	case "json", "yaml", "dot":
	default:
		return fmt.Errorf("SLICESTORE_EXPORT must be json, yaml or dot, got %q", c.ExportFormat)
	}
	if c.TickInterval <= 0 {
		return errors.New("SLICESTORE_TICK_INTERVAL must be positive")
	}
	if c.StoreID == "" {
		return errors.New("SLICESTORE_STORE_ID must not be empty")
	}
	return nil
}
