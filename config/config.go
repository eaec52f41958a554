// Package config loads user preferences from an optional TOML file.
//
// The file holds non-secret defaults only: provider selection, model,
// base URL, connection-form prefills, and log settings. API keys are
// never read from the file; they come from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded contents of the config file.
type Config struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`

	Connection Connection `toml:"connection"`
	Log        Log        `toml:"log"`
}

// Connection holds connection-form prefills. There is deliberately no
// password field: secrets never live in the config file.
type Connection struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Database string `toml:"database"`
}

// Log holds logging preferences. An empty Path means the default log
// file location.
type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Connection: Connection{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Database: "chinook",
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the default config file location,
// ~/.dbchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dbchat", "config.toml"), nil
}

// Load reads the TOML file at path over the defaults. A missing file
// is not an error: the defaults are returned as-is. Keys absent from
// the file keep their default values; keys the struct doesn't declare
// (API keys included) are ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}
