// Package config loads editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"pixelforge/internal/project"
	"pixelforge/internal/storage"
)

// FileName is the config file name inside the storage directory.
const FileName = "config.toml"

// Limits accepted by Validate.
const (
	MaxCanvasSize = project.MaxSize
	MinZoom       = 1
	MaxZoom       = 16
)

// Config holds all user-tunable settings.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Autosave AutosaveConfig `toml:"autosave"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// CanvasConfig sizes new canvases.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// AutosaveConfig controls the periodic autosave.
type AutosaveConfig struct {
	Enabled  bool          `toml:"enabled"`
	Interval time.Duration `toml:"interval"`
	Dir      string        `toml:"dir"` // Empty means the user config dir
}

// HistoryConfig tunes undo.
type HistoryConfig struct {
	Limit              int  `toml:"limit"`               // 0 keeps every step
	CoalesceStrokes    bool `toml:"coalesce_strokes"`    // One undo step per pencil drag
	InterpolateStrokes bool `toml:"interpolate_strokes"` // Join pointer ticks with lines
}

// LogConfig selects the logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// UIConfig holds window defaults.
type UIConfig struct {
	Zoom int `toml:"zoom"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Canvas:   CanvasConfig{Width: 128, Height: 128},
		Autosave: AutosaveConfig{Enabled: true, Interval: 30 * time.Second},
		History:  HistoryConfig{Limit: 0},
		Log:      LogConfig{Level: "info"},
		UI:       UIConfig{Zoom: 4},
	}
}

// DefaultPath returns the config location under the user config dir.
func DefaultPath() string {
	return filepath.Join(storage.DefaultDir(), FileName)
}

// Load reads path over the defaults. A missing file is not an error.
// An unreadable or malformed file returns a nil config. On a validation
// failure the returned config has the offending values reset to their
// defaults, and the error lists what was reset.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate resets out-of-range values to defaults and reports each one.
func (c *Config) Validate() error {
	def := Default()
	var errs []error

	if c.Canvas.Width <= 0 || c.Canvas.Width > MaxCanvasSize {
		errs = append(errs, fmt.Errorf("canvas.width %d outside 1-%d", c.Canvas.Width, MaxCanvasSize))
		c.Canvas.Width = def.Canvas.Width
	}
	if c.Canvas.Height <= 0 || c.Canvas.Height > MaxCanvasSize {
		errs = append(errs, fmt.Errorf("canvas.height %d outside 1-%d", c.Canvas.Height, MaxCanvasSize))
		c.Canvas.Height = def.Canvas.Height
	}
	if c.Autosave.Interval < time.Second {
		errs = append(errs, fmt.Errorf("autosave.interval %s below 1s", c.Autosave.Interval))
		c.Autosave.Interval = def.Autosave.Interval
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit %d is negative", c.History.Limit))
		c.History.Limit = def.History.Limit
	}
	if c.UI.Zoom < MinZoom || c.UI.Zoom > MaxZoom {
		errs = append(errs, fmt.Errorf("ui.zoom %d outside %d-%d", c.UI.Zoom, MinZoom, MaxZoom))
		c.UI.Zoom = def.UI.Zoom
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q unknown", c.Log.Level))
		c.Log.Level = def.Log.Level
	}

	return errors.Join(errs...)
}

// Save writes the config as TOML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}
