// Package config loads viewer settings from a TOML file. Every field
// has a sensible default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the user-tunable viewer settings
type Config struct {
	Backend string `toml:"backend"` // fyne, raylib or webgl
	Window  Window `toml:"window"`
	View    View   `toml:"view"`
	Loader  Loader `toml:"loader"`
}

// Window configures the initial window geometry
type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// View bounds the camera controls
type View struct {
	ZoomMin float64 `toml:"zoom_min"`
	ZoomMax float64 `toml:"zoom_max"`
	Margin  float64 `toml:"fit_margin"`
}

// Loader configures mesh post-processing and reloading
type Loader struct {
	WeldTolerance float64 `toml:"weld_tolerance"` // 0 disables vertex welding
	AutoReload    bool    `toml:"auto_reload"`
	ReloadDelayMS int     `toml:"reload_delay_ms"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Backend: "fyne",
		Window:  Window{Width: 1024, Height: 768},
		View:    View{ZoomMin: 0.05, ZoomMax: 50.0, Margin: 1.1},
		Loader:  Loader{WeldTolerance: 0, AutoReload: true, ReloadDelayMS: 250},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "meshview", "config.toml")
}

// Load reads the config at path, filling unset fields with defaults.
// A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch c.Backend {
	case "fyne", "raylib", "webgl":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.View.ZoomMin <= 0 || c.View.ZoomMax <= c.View.ZoomMin {
		return fmt.Errorf("zoom range [%g, %g] is not positive and increasing", c.View.ZoomMin, c.View.ZoomMax)
	}
	if c.View.Margin < 1 {
		return fmt.Errorf("fit margin %g would clip the model", c.View.Margin)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is not positive", c.Window.Width, c.Window.Height)
	}
	if c.Loader.WeldTolerance < 0 {
		return fmt.Errorf("weld tolerance must not be negative")
	}
	return nil
}
