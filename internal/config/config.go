// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"
)

// Config carries process-wide settings. DatabaseDSN empty means a local
// sqlite file, which is the dev default.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseDSN string
	SQLitePath  string

	SweepBatchSize    int
	SweepPollInterval time.Duration

	HTTPRateLimit  int
	HTTPRateWindow time.Duration
}

func (c Config) IsProduction() bool { return c.Environment == "production" }

// Load reads configuration from the environment with dev defaults.
func Load() Config {
	return Config{
		Environment:       envString("ROOMBOX_ENV", "development"),
		HTTPAddr:          envString("ROOMBOX_HTTP_ADDR", ":8080"),
		DatabaseDSN:       os.Getenv("ROOMBOX_DATABASE_DSN"),
		SQLitePath:        envString("ROOMBOX_SQLITE_PATH", "roombox.db"),
		SweepBatchSize:    envInt("ROOMBOX_SWEEP_BATCH_SIZE", 50),
		SweepPollInterval: envDuration("ROOMBOX_SWEEP_POLL_INTERVAL", 30*time.Second),
		HTTPRateLimit:     envInt("ROOMBOX_HTTP_RATE_LIMIT", 120),
		HTTPRateWindow:    envDuration("ROOMBOX_HTTP_RATE_WINDOW", time.Minute),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
