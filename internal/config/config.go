// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Web    WebConfig    `toml:"web"`
	Log    LogConfig    `toml:"log"`
}

// EngineConfig holds control loop settings.
type EngineConfig struct {
	// Map and Character name the store rows loaded at startup.
	Map       string `toml:"map"`
	Character string `toml:"character"`

	// Halting starts the engine paused so rotation only begins after an
	// explicit resume.
	Halting bool `toml:"halting"`
}

// WebConfig holds event stream server settings.
type WebConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool `toml:"debug"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Map:       "default",
			Character: "default",
			Halting:   true,
		},
		Web: WebConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:8313",
		},
		Log: LogConfig{
			Debug: false,
		},
	}
}

// Load reads configuration from a TOML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from file if it exists
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAPLETIDE_MAP"); v != "" {
		cfg.Engine.Map = v
	}

	if v := os.Getenv("MAPLETIDE_CHARACTER"); v != "" {
		cfg.Engine.Character = v
	}

	if v := os.Getenv("MAPLETIDE_HALTING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.Halting = b
		}
	}

	if v := os.Getenv("MAPLETIDE_WEB_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Web.Enabled = b
		}
	}

	if v := os.Getenv("MAPLETIDE_WEB_LISTEN_ADDR"); v != "" {
		cfg.Web.ListenAddr = v
	}

	if v := os.Getenv("MAPLETIDE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}
}

// DefaultPath returns the path to the default config file inside the data
// directory.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the path to the mapletide data directory (~/.mapletide).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mapletide"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
