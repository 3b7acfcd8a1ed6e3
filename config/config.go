// ABOUTME: Configuration management for drag, auto-scroll and grid layout settings
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by Validate for values that cannot be clamped
var ErrInvalidConfig = errors.New("invalid config")

// ReorderConfig tunes header drag edge-scrolling
type ReorderConfig struct {
	EdgeScrollIntervalMS int     `toml:"edge_scroll_interval_ms"`
	EdgeScrollStep       float64 `toml:"edge_scroll_step"`
}

// AutoScrollConfig tunes the selection auto-scroll cadence.
// The delay shrinks from MaxDelayMS towards MinDelayMS as the pointer moves further out.
type AutoScrollConfig struct {
	MinDelayMS   float64 `toml:"min_delay_ms"`
	MaxDelayMS   float64 `toml:"max_delay_ms"`
	Acceleration float64 `toml:"acceleration"`
}

// GridConfig holds sheet layout defaults, in terminal cells
type GridConfig struct {
	DefaultColWidth float64 `toml:"default_col_width"`
	MinColWidth     float64 `toml:"min_col_width"`
	MaxColWidth     float64 `toml:"max_col_width"`
	RowHeight       float64 `toml:"row_height"`
	FrozenCols      int     `toml:"frozen_cols"`
	FrozenRows      int     `toml:"frozen_rows"`
}

// UIConfig holds front-end settings
type UIConfig struct {
	UndoLimit int     `toml:"undo_limit"`
	Zoom      float64 `toml:"zoom"`
}

// Config holds all tunable settings
type Config struct {
	Reorder    ReorderConfig    `toml:"reorder"`
	AutoScroll AutoScrollConfig `toml:"autoscroll"`
	Grid       GridConfig       `toml:"grid"`
	UI         UIConfig         `toml:"ui"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/gridshift/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./gridshift.toml"); err == nil {
		return "./gridshift.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./gridshift.toml"
	}

	return filepath.Join(home, ".config", "gridshift", "config.toml")
}

// LoadConfig loads configuration from a TOML file.
// Missing keys keep their defaults; a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		Reorder: ReorderConfig{
			EdgeScrollIntervalMS: 5,
			EdgeScrollStep:       3,
		},
		AutoScroll: AutoScrollConfig{
			MinDelayMS:   20,
			MaxDelayMS:   140,
			Acceleration: 0.035,
		},
		Grid: GridConfig{
			DefaultColWidth: 10,
			MinColWidth:     3,
			MaxColWidth:     30,
			RowHeight:       1,
		},
		UI: UIConfig{
			UndoLimit: 50,
			Zoom:      1,
		},
	}
}

// Validate clamps out-of-range values and rejects contradictory ones
func (c *Config) Validate() error {
	if c.Reorder.EdgeScrollIntervalMS <= 0 {
		c.Reorder.EdgeScrollIntervalMS = 5
	}

	if c.Reorder.EdgeScrollStep <= 0 {
		c.Reorder.EdgeScrollStep = 3
	}

	if c.AutoScroll.MinDelayMS < 0 {
		c.AutoScroll.MinDelayMS = 0
	}

	if c.AutoScroll.MinDelayMS > c.AutoScroll.MaxDelayMS {
		return fmt.Errorf("%w: autoscroll min_delay_ms %.0f exceeds max_delay_ms %.0f",
			ErrInvalidConfig, c.AutoScroll.MinDelayMS, c.AutoScroll.MaxDelayMS)
	}

	if c.AutoScroll.Acceleration < 0 {
		c.AutoScroll.Acceleration = 0
	}

	if c.Grid.MinColWidth < 1 {
		c.Grid.MinColWidth = 1
	}

	if c.Grid.MaxColWidth < c.Grid.MinColWidth {
		return fmt.Errorf("%w: grid max_col_width %.0f below min_col_width %.0f",
			ErrInvalidConfig, c.Grid.MaxColWidth, c.Grid.MinColWidth)
	}

	c.Grid.DefaultColWidth = max(c.Grid.MinColWidth, min(c.Grid.DefaultColWidth, c.Grid.MaxColWidth))

	if c.Grid.RowHeight < 1 {
		c.Grid.RowHeight = 1
	}

	c.Grid.FrozenCols = max(c.Grid.FrozenCols, 0)
	c.Grid.FrozenRows = max(c.Grid.FrozenRows, 0)

	if c.UI.UndoLimit < 1 {
		c.UI.UndoLimit = 1
	}

	if c.UI.Zoom <= 0 {
		c.UI.Zoom = 1
	}

	return nil
}
