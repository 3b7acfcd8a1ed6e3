// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing, partial files, clamping and default fallback

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.AutoScroll.MinDelayMS != 20 || cfg.AutoScroll.MaxDelayMS != 140 {
		t.Errorf("Expected delays 20..140, got %.0f..%.0f", cfg.AutoScroll.MinDelayMS, cfg.AutoScroll.MaxDelayMS)
	}

	if cfg.Reorder.EdgeScrollIntervalMS != 5 || cfg.Reorder.EdgeScrollStep != 3 {
		t.Errorf("Unexpected reorder defaults: %+v", cfg.Reorder)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate, got: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gridshift.toml")

	cfg := DefaultConfig()
	cfg.Grid.FrozenCols = 2
	cfg.AutoScroll.Acceleration = 0.05

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded != cfg {
		t.Errorf("Round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridshift.toml")
	data := "[autoscroll]\nmax_delay_ms = 200\n"

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.AutoScroll.MaxDelayMS != 200 {
		t.Errorf("Expected max_delay_ms 200, got %.0f", cfg.AutoScroll.MaxDelayMS)
	}

	if cfg.AutoScroll.MinDelayMS != 20 {
		t.Errorf("Expected default min_delay_ms 20, got %.0f", cfg.AutoScroll.MinDelayMS)
	}

	if cfg.Grid.DefaultColWidth != 10 {
		t.Errorf("Expected default column width 10, got %.0f", cfg.Grid.DefaultColWidth)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridshift.toml")
	if err := os.WriteFile(path, []byte("[grid\nfrozen_cols = "), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected parse error")
	}

	if cfg != DefaultConfig() {
		t.Errorf("Expected defaults on error, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		check   func(Config) bool
		wantErr bool
	}{
		{
			name:   "negative frozen panes clamp to zero",
			mutate: func(c *Config) { c.Grid.FrozenCols = -3; c.Grid.FrozenRows = -1 },
			check:  func(c Config) bool { return c.Grid.FrozenCols == 0 && c.Grid.FrozenRows == 0 },
		},
		{
			name:   "default width clamps into min..max",
			mutate: func(c *Config) { c.Grid.DefaultColWidth = 99 },
			check:  func(c Config) bool { return c.Grid.DefaultColWidth == 30 },
		},
		{
			name:   "zero zoom resets to one",
			mutate: func(c *Config) { c.UI.Zoom = 0 },
			check:  func(c Config) bool { return c.UI.Zoom == 1 },
		},
		{
			name:   "zero edge scroll interval resets",
			mutate: func(c *Config) { c.Reorder.EdgeScrollIntervalMS = 0 },
			check:  func(c Config) bool { return c.Reorder.EdgeScrollIntervalMS == 5 },
		},
		{
			name:    "min delay above max delay",
			mutate:  func(c *Config) { c.AutoScroll.MinDelayMS = 500 },
			wantErr: true,
		},
		{
			name:    "max width below min width",
			mutate:  func(c *Config) { c.Grid.MaxColWidth = 2 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if !tt.check(cfg) {
				t.Errorf("Validate produced %+v", cfg)
			}
		})
	}
}
