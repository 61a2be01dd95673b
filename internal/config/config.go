// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultBackend  = "file"
	DefaultDebounce = "150ms"
)

// Config represents the brandkit configuration.
type Config struct {
	Theme       ThemeConfig       `toml:"theme"`
	Persistence PersistenceConfig `toml:"persistence"`
	Watch       WatchConfig       `toml:"watch"`
}

// ThemeConfig selects the theme declaration and start-up mode.
type ThemeConfig struct {
	File         string `toml:"file"`          // YAML theme declaration (empty = preset)
	Preset       string `toml:"preset"`        // Built-in declaration used when File is empty
	Mode         string `toml:"mode"`          // Mode applied at start-up when nothing is stored
	FollowSystem bool   `toml:"follow_system"` // Ask the desktop portal for a preferred scheme
}

// PersistenceConfig holds where the active mode is stored.
type PersistenceConfig struct {
	Enabled bool   `toml:"enabled"`
	Backend string `toml:"backend" validate:"omitempty,oneof=memory file sqlite"`
	Key     string `toml:"key" validate:"omitempty,storage_key"`
	Path    string `toml:"path"` // Empty = backend default under the data directory
}

// WatchConfig holds hot-reload settings.
type WatchConfig struct {
	Debounce string `toml:"debounce" validate:"omitempty,duration"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Persistence: PersistenceConfig{
			Enabled: true,
			Backend: DefaultBackend,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "brandkit", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Relative theme files are resolved against the config directory.
	if cfg.Theme.File != "" && !filepath.IsAbs(cfg.Theme.File) {
		cfg.Theme.File = filepath.Join(filepath.Dir(path), cfg.Theme.File)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DebounceDuration returns the parsed debounce interval, falling back to the
// default for empty or invalid values.
func (w WatchConfig) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(w.Debounce); err == nil && d >= 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultDebounce)
	return d
}
