// Package config loads attune's runtime configuration from (in order of
// precedence, lowest first) built-in defaults, the JSON config file at
// $XDG_CONFIG_HOME/attune/config.json, and ATTUNE_* environment variables.
package config

import (
	"fmt"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Match   MatchConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type MatchConfig struct {
	TopK int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 7340,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Match: MatchConfig{
			TopK: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the file backend and environment variables.
// The one fatal precondition is a resolvable storage data directory: without
// it the answer store cannot open, so Load fails here, once, instead of on
// every request.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Storage.DataDir == "" {
		return Config{}, fmt.Errorf("missing required config: storage data directory. " +
			"Set it via ATTUNE_STORAGE_DATA_DIR or the storage.data_dir config key")
	}

	return cfg, nil
}
