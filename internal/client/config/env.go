package config

import "os"

// parseEnv overlays Config with environment variables when they are set.
func parseEnv(cfg *Config) {
	if v := os.Getenv("TODO_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("TODO_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
}
