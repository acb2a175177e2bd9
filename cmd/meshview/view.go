package main

import (
	"fmt"
	"time"

	"github.com/precisesim/meshview/internal/controller"
	"github.com/precisesim/meshview/pkg/config"
	"github.com/precisesim/meshview/pkg/viewer"
	"github.com/precisesim/meshview/pkg/watcher"
)

// runView loads the configuration, applies flag overrides and hands
// off to the shell for the selected backend.
func runView(path string) error {
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagWeld >= 0 {
		cfg.Loader.WeldTolerance = flagWeld
	}
	if flagNoReload {
		cfg.Loader.AutoReload = false
	}

	mode, err := parseRenderMode(flagMode)
	if err != nil {
		return err
	}

	switch cfg.Backend {
	case "fyne":
		return runFyne(path, cfg, mode)
	case "raylib":
		return runRaylib(path, cfg, mode)
	case "webgl":
		return runWebGL(path, cfg, mode)
	default:
		return fmt.Errorf("unknown backend %q (expected fyne, raylib or webgl)", cfg.Backend)
	}
}

func parseRenderMode(name string) (viewer.RenderMode, error) {
	switch name {
	case "", "solid":
		return viewer.ModeSolid, nil
	case "wireframe":
		return viewer.ModeWireframe, nil
	case "solid+wireframe", "solid+edges":
		return viewer.ModeSolidEdges, nil
	default:
		return viewer.ModeSolid, fmt.Errorf("unknown render mode %q", name)
	}
}

// controllerOptions maps config values onto controller options
func controllerOptions(cfg config.Config) controller.Options {
	return controller.Options{
		Limits: viewer.Limits{
			ZoomMin: cfg.View.ZoomMin,
			ZoomMax: cfg.View.ZoomMax,
			Margin:  cfg.View.Margin,
		},
		WeldTolerance: cfg.Loader.WeldTolerance,
		OnError: func(err error) {
			fmt.Printf("Error: %v\n", err)
		},
	}
}

// openInitial shows the given file, falling back to the built-in cube
// when no file was named or it fails to load.
func openInitial(c *controller.Controller, path string) error {
	if path == "" {
		return c.ShowDefault()
	}
	if err := c.OpenSync(path); err != nil {
		fmt.Printf("Falling back to the default model\n")
		return c.ShowDefault()
	}
	return nil
}

// startAutoReload watches the opened file and forwards change
// notifications. Returns nil when auto-reload is disabled or nothing
// was opened.
func startAutoReload(cfg config.Config, path string, onChange func(string)) (*watcher.Watcher, error) {
	if !cfg.Loader.AutoReload || path == "" {
		return nil, nil
	}

	w, err := watcher.New(time.Duration(cfg.Loader.ReloadDelayMS) * time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	if err := w.Watch(path, onChange); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// statusTitle builds the window title from the current session
func statusTitle(vs viewer.ViewState, name string) string {
	if name == "" {
		name = "meshview"
	}
	return fmt.Sprintf("%s - %s | az %.0f el %.0f zoom %.2fx",
		name, vs.Mode, vs.Azimuth, vs.Elevation, vs.Zoom)
}
