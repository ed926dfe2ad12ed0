// Package config loads taskdeck's configuration from a JSON file in the
// user's config directory. Missing files and missing fields fall back to
// defaults via the Get* accessors, so a zero Config is always usable.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application's config directory name.
	AppName = "taskdeck"

	configFile = "config.json"

	// EnvAPIEndpoint overrides the configured service endpoint.
	EnvAPIEndpoint = "TASKDECK_API_ENDPOINT"

	defaultEndpoint = "http://localhost:3001"
	defaultPageSize = 10
)

// Config is the persisted configuration shape.
type Config struct {
	// APIEndpoint is the base URL of the remote task service.
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// Theme selects the TUI color scheme ("light" or "dark").
	Theme string `json:"theme,omitempty"`

	// PageSize is the task page size requested from the service.
	PageSize int `json:"page_size,omitempty"`

	// Logging configures the file logger.
	Logging *LoggingConfig `json:"logging,omitempty"`
}

// LoggingConfig controls the zap file logger. The TUI owns the terminal,
// so logs always go to a file.
type LoggingConfig struct {
	Level string `json:"level,omitempty"`
	File  string `json:"file,omitempty"`
}

// Dir returns the config directory: $XDG_CONFIG_HOME/taskdeck, or
// $HOME/.config/taskdeck, falling back to a relative dir without a home.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads the config at path. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to path, creating the directory as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GetAPIEndpoint returns the service endpoint. Priority: environment
// variable, config field, built-in default.
func (c *Config) GetAPIEndpoint() string {
	if ep := os.Getenv(EnvAPIEndpoint); ep != "" {
		return ep
	}
	if c.APIEndpoint != "" {
		return c.APIEndpoint
	}
	return defaultEndpoint
}

// GetTheme returns the theme name, defaulting to "dark".
func (c *Config) GetTheme() string {
	if c.Theme != "" {
		return c.Theme
	}
	return "dark"
}

// GetPageSize returns the task page size with the default applied.
func (c *Config) GetPageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

// GetLogging returns logging settings with defaults applied. The default
// log file lives next to the config file.
func (c *Config) GetLogging() LoggingConfig {
	cfg := LoggingConfig{}
	if c.Logging != nil {
		cfg = *c.Logging
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(Dir(), "taskdeck.log")
	}
	return cfg
}
