// Package config loads the application configuration from a YAML file,
// falling back to sane defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment selects the database file so development work never
// touches production data.
type Environment string

const (
	EnvProduction  Environment = "production"
	EnvDevelopment Environment = "development"
)

// Config is the application configuration.
type Config struct {
	// DataDir is where the durable database image lives.
	DataDir string `yaml:"data_dir"`
	// Env picks the database filename (gym.db vs gym_dev.db).
	Env Environment `yaml:"env"`
	// AutosaveSeconds is the interval between periodic image saves.
	AutosaveSeconds int `yaml:"autosave_seconds"`
	// StatusRefreshSeconds is the interval between derived-status sweeps.
	StatusRefreshSeconds int `yaml:"status_refresh_seconds"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
// The data directory follows os.UserConfigDir, matching where desktop
// tooling keeps per-user application data.
func Default() Config {
	dataDir := "."
	if base, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(base, "gymdesk")
	}
	return Config{
		DataDir:              dataDir,
		Env:                  EnvProduction,
		AutosaveSeconds:      30,
		StatusRefreshSeconds: 60,
		LogLevel:             "info",
	}
}

// Load reads the YAML file at path and overlays it on the defaults.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.AutosaveSeconds <= 0 {
		return fmt.Errorf("autosave_seconds must be positive, got %d", c.AutosaveSeconds)
	}
	if c.StatusRefreshSeconds <= 0 {
		return fmt.Errorf("status_refresh_seconds must be positive, got %d", c.StatusRefreshSeconds)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// DatabasePath returns the durable image path for the configured
// environment.
func (c Config) DatabasePath() string {
	name := "gym.db"
	if c.Env == EnvDevelopment {
		name = "gym_dev.db"
	}
	return filepath.Join(c.DataDir, name)
}

// AutosaveInterval returns AutosaveSeconds as a duration.
func (c Config) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// StatusRefreshInterval returns StatusRefreshSeconds as a duration.
func (c Config) StatusRefreshInterval() time.Duration {
	return time.Duration(c.StatusRefreshSeconds) * time.Second
}
