// Package config loads the board service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the board service configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string `envconfig:"PORT" default:"8080"`
	// DatabasePath is the SQLite DSN.
	DatabasePath string `envconfig:"DATABASE_PATH" default:"/data/board.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"`
	// JWTSecret is the HS256 key used to verify access tokens.
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-key"`
	// AllowedOrigins lists the CORS origins, comma separated.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads Config from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
