package config

import (
	"fmt"
	"os"
)

// Config is the process-wide configuration, loaded once at startup and
// immutable afterwards.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	AppEnv      string
	Domain      string
}

// C holds the active configuration. Load replaces it; tests may assign it
// directly.
var C = &Config{}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AppEnv:      os.Getenv("APP_ENV"),
		Domain:      os.Getenv("DOMAIN"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	C = cfg

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
