// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// DatabaseURL selects the name store: postgres://… for Postgres,
	// sqlite://path or a *.db file for SQLite. Required.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// LogLevel controls the minimum log level: debug, info, warn or error.
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"false"`

	// RequestTimeout bounds the handling time of a single request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// CacheMaxAge is advertised in Cache-Control on read responses; the
	// store only changes on re-import.
	CacheMaxAge time.Duration `env:"CACHE_MAX_AGE" envDefault:"1h"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variable that is not set or any
// value that cannot be parsed.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.CORSOrigins = trimList(cfg.CORSOrigins)
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("config.Load: REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.CacheMaxAge < 0 {
		return Config{}, fmt.Errorf("config.Load: CACHE_MAX_AGE must not be negative, got %s", cfg.CacheMaxAge)
	}
	return cfg, nil
}

// trimList trims every entry, ignoring empty ones.
func trimList(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
