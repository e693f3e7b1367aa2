// Package config loads application-level settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the application configuration. LLM provider credentials live in
// the llm package's own env config.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `env:"BLOOMLAB_DB_PATH" envDefault:"bloomlab.db"`

	// ExportDir is where run CSVs are written.
	ExportDir string `env:"BLOOMLAB_EXPORT_DIR" envDefault:"exports"`

	// MarkerAddr is the trigger device's UDP address. Empty disables the
	// marker channel entirely.
	MarkerAddr string `env:"BLOOMLAB_MARKER_ADDR"`

	// BaselineDwell is the uninterruptible baseline display duration.
	BaselineDwell time.Duration `env:"BLOOMLAB_BASELINE_DWELL" envDefault:"30s"`

	// LogPath is where process diagnostics go. Empty logs to stderr.
	LogPath string `env:"BLOOMLAB_LOG_PATH"`

	// Debug enables verbose diagnostics.
	Debug bool `env:"BLOOMLAB_DEBUG"`
}

// Load reads .env if present, then parses the environment.
func Load() (Config, error) {
	// A missing .env is normal; explicit environment wins either way.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.BaselineDwell <= 0 {
		return Config{}, fmt.Errorf("baseline dwell must be positive, got %v", cfg.BaselineDwell)
	}
	return cfg, nil
}
