// Package config handles configuration for the client: defaults, optional
// JSON file, environment variables, and command-line flags, in that order of
// precedence (later sources win).
package config

// Config holds runtime settings for the to-do CLI.
//
// Fields:
//   - ServerBaseURL: base origin of the backend API.
//   - DatabaseDSN: path of the local SQLite database holding session state.
type Config struct {
	ServerBaseURL string
	DatabaseDSN   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.DatabaseDSN = "todo.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
