package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/core/styles"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "does-not-exist.yml"), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != styles.DefaultTheme {
		t.Errorf("theme = %q, want %q", cfg.Theme, styles.DefaultTheme)
	}
	if cfg.Review.StartMode != string(overlay.ModeReview) {
		t.Errorf("start mode = %q, want review", cfg.Review.StartMode)
	}
	if cfg.DataDir != dir {
		t.Errorf("data dir = %q, want %q", cfg.DataDir, dir)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "theme: gruvbox\nreview:\n  start_mode: final\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "gruvbox" {
		t.Errorf("theme = %q, want gruvbox", cfg.Theme)
	}
	if cfg.Review.StartMode != "final" {
		t.Errorf("start mode = %q, want final", cfg.Review.StartMode)
	}
	// untouched fields keep defaults
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("max open conns = %d, want default 10", cfg.Database.MaxOpenConns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Theme = "solarized-disco" },
			wantErr: "unknown theme",
		},
		{
			name:    "unknown default type",
			mutate:  func(c *Config) { c.DefaultType = "SECRET" },
			wantErr: "unknown redaction type",
		},
		{
			name:    "unknown start mode",
			mutate:  func(c *Config) { c.Review.StartMode = "editing" },
			wantErr: "unknown view mode",
		},
		{
			name:    "empty fields fall through",
			mutate:  func(c *Config) { c.Theme = ""; c.DefaultType = ""; c.Review.StartMode = "" },
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDataDirMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.DataDir = file
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for file data dir")
	}

	cfg.DataDir = filepath.Join(dir, "absent")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("absent data dir should validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yml")

	cfg := DefaultConfig()
	cfg.Theme = "catppuccin"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "catppuccin" {
		t.Errorf("theme = %q, want catppuccin", loaded.Theme)
	}
}
