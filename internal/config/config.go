package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all stashtrack service configuration. Values come from
// STASHTRACK_-prefixed environment variables, optionally seeded from a
// local .env file.
type Config struct {
	Bind string `envconfig:"BIND" default:"127.0.0.1"`
	Port int    `envconfig:"PORT" default:"8420"`

	// DBPath overrides the default ~/.stashtrack/stashtrack.db location.
	DBPath string `envconfig:"DB" default:""`

	// StrainCatalog is the path to the strain CSV dataset. Empty disables
	// the strain routes.
	StrainCatalog string `envconfig:"STRAIN_CATALOG" default:""`

	// LogLevel is a zerolog level name: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DefaultDailyLimitMg is the daily absorbed-dose cap for users who
	// have not set their own. Zero disables it.
	DefaultDailyLimitMg float64 `envconfig:"DEFAULT_DAILY_LIMIT_MG" default:"100"`
}

// Load reads a .env file if present, then the environment.
func Load() (Config, error) {
	// Missing .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("stashtrack", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
