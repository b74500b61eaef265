// Package config loads the process-level configuration that the
// storage core itself has no opinion on: where the data directory
// lives. A small TOML document replaces a bare `-config` directory
// flag; data_dir is currently its only key.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/weresobayes/zentrydb/internal/kinderr"
)

const defaultDataDir = "data"

// Config holds the ledger's on-disk configuration.
type Config struct {
	DataDir string `toml:"data_dir"`
}

// Load reads path as TOML. A missing file yields the default
// configuration rather than an error, so a fresh checkout can run
// install/load without first hand-writing a config file.
func Load(path string) (*Config, error) {
	cfg := &Config{DataDir: defaultDataDir}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Io, "read config file "+path, err)
	}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, kinderr.Wrap(kinderr.InvalidData, "parse config file "+path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	return cfg, nil
}
