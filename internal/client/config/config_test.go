package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://localhost:8000", cfg.ServerBaseURL)
	require.Equal(t, "todo.db", cfg.DatabaseDSN)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("TODO_SERVER_URL", "http://api.example.com")
	t.Setenv("TODO_DATABASE_DSN", "/tmp/x.db")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "http://api.example.com", cfg.ServerBaseURL)
	require.Equal(t, "/tmp/x.db", cfg.DatabaseDSN)
}

func TestParseEnv_EmptyKeepsDefaults(t *testing.T) {
	t.Setenv("TODO_SERVER_URL", "")
	t.Setenv("TODO_DATABASE_DSN", "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "http://localhost:8000", cfg.ServerBaseURL)
}

func TestParseJson_PartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_base_url":"http://json.example.com"}`), 0o600))

	old := os.Args
	os.Args = []string{"client", "-c", path}
	t.Cleanup(func() { os.Args = old })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "http://json.example.com", cfg.ServerBaseURL)
	require.Equal(t, "todo.db", cfg.DatabaseDSN, "fields absent from JSON stay at defaults")
}

func TestParseFlags_Overrides(t *testing.T) {
	old := os.Args
	os.Args = []string{"client", "-a", "http://flag.example.com", "-d", "flag.db", "-unrelated"}
	t.Cleanup(func() { os.Args = old })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "http://flag.example.com", cfg.ServerBaseURL)
	require.Equal(t, "flag.db", cfg.DatabaseDSN)
}
