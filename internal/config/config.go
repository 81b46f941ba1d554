// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/duelsmp/internal/model"
)

// Config is the duelsmp server configuration
type Config struct {
	Host     string `env:"DUELSMP_HOST"`
	Port     int    `env:"DUELSMP_PORT"      envDefault:"8080"`
	LogLevel string `env:"DUELSMP_LOG_LEVEL" envDefault:"info"`

	ReadTimeout     time.Duration `env:"DUELSMP_READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"DUELSMP_WRITE_TIMEOUT"    envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"DUELSMP_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"duelsmp.db"`

	DefaultBet     int    `env:"DUELSMP_DEFAULT_BET"      envDefault:"1"`
	DefaultBetMode string `env:"DUELSMP_DEFAULT_BET_MODE" envDefault:"agreed"`
	RandomBetMode  bool   `env:"DUELSMP_RANDOM_BET_MODE"`
}

// Load parses the process environment and validates the result
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("DUELSMP_PORT out of range: %d", c.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.StorageType {
	case "memory", "sqlite":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be memory, redis or sqlite, got %q", c.StorageType)
	}
	if !model.ValidBet(c.DefaultBet) {
		return fmt.Errorf("DUELSMP_DEFAULT_BET must be between %d and %d, got %d", model.MinBet, model.MaxBet, c.DefaultBet)
	}
	if !model.BetMode(c.DefaultBetMode).Valid() {
		return fmt.Errorf("DUELSMP_DEFAULT_BET_MODE must be agreed or blind, got %q", c.DefaultBetMode)
	}
	return nil
}

// SlogLevel converts LogLevel to a slog level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("DUELSMP_LOG_LEVEL: %w", err)
	}
	return level, nil
}
