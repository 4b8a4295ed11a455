package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todoapp/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Values are
// copied into the runtime Config after parsing; absent fields leave the
// current value in place.
type JsonConfig struct {
	ServerBaseURL *string `json:"server_base_url"`
	DatabaseDSN   *string `json:"database_dsn"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given via -c/-config. When no path is provided nothing happens.
// Read or unmarshal errors panic; the config layer runs before anything
// else and a broken config file should stop the program.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
}
