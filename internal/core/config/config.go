// Package config handles configuration loading and validation for blackout.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	// Theme selects the TUI color theme by name.
	Theme string `yaml:"theme"`
	// DefaultType is the redaction type preselected when creating a
	// manual redaction.
	DefaultType string `yaml:"default_type"`
	// Review holds review-screen behavior.
	Review ReviewConfig `yaml:"review"`
	// Database holds SQLite connection tuning.
	Database DatabaseConfig `yaml:"database"`

	DataDir string `yaml:"-"` // set by caller, not from config file
}

// ReviewConfig controls the review TUI.
type ReviewConfig struct {
	// StartMode is the view mode the review screen opens in.
	StartMode string `yaml:"start_mode"`
}

// DatabaseConfig holds SQLite connection tuning.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout_ms"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:       styles.DefaultTheme,
		DefaultType: string(redact.TypePII),
		Review: ReviewConfig{
			StartMode: string(overlay.ModeReview),
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads the config file at path, applies defaults for anything
// unset, and validates the result. A missing file is not an error;
// defaults apply.
func Load(path string, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
