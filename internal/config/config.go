// Package config loads analyzer settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/pfrederiksen/lotto-analyzer/internal/logger"
)

// Config holds settings that command-line flags may override
type Config struct {
	DBPath       string        `env:"LOTTO_DB_PATH" envDefault:"~/.local/share/lotto-analyzer/lottery_results.db"`
	LogLevel     string        `env:"LOTTO_LOG_LEVEL" envDefault:"info"`
	HTTPTimeout  time.Duration `env:"LOTTO_HTTP_TIMEOUT" envDefault:"30s"`
	UserAgent    string        `env:"LOTTO_USER_AGENT"`
	ProfilesFile string        `env:"LOTTO_PROFILES_FILE"`
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot use
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("LOTTO_DB_PATH must not be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOTTO_LOG_LEVEL: %w", err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("LOTTO_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
