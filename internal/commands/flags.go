// Package commands wires the CLI surface: one file per subcommand,
// each registering itself on the root urfave/cli command.
package commands

import (
	"os"
	"path/filepath"

	"github.com/caseworks/blackout/internal/core/config"
	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/redact"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Stores are opened in the Before hook
	Documents document.Store
	Spans     redact.Store
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "blackout", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "blackout")
}
