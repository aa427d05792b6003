package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, themeExists),
		criterio.Run("default_type", c.DefaultType, isKnownType),
		criterio.Run("review.start_mode", c.Review.StartMode, isKnownMode),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func themeExists(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func isKnownType(name string) error {
	if name == "" {
		return nil
	}
	if !redact.Type(name).Valid() {
		return fmt.Errorf("unknown redaction type %q (available: %v)", name, redact.Types())
	}
	return nil
}

func isKnownMode(name string) error {
	if name == "" {
		return nil
	}
	if !overlay.ViewMode(name).Valid() {
		return fmt.Errorf("unknown view mode %q", name)
	}
	return nil
}

// isDirectoryOrNotExist validates that the path is a directory or
// doesn't exist yet (it will be created on first use).
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
