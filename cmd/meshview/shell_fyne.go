package main

import (
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/precisesim/meshview/internal/controller"
	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/internal/render/fynecanvas"
	"github.com/precisesim/meshview/pkg/config"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

// runFyne hosts the immediate-mode backend in a fyne window. Widget
// callbacks arrive on the fyne main goroutine, so the controller is
// driven directly from them; background work (reload notifications,
// async parses) is marshalled in via fyne.Do.
func runFyne(path string, cfg config.Config, mode viewer.RenderMode) error {
	a := fyneapp.New()
	w := a.NewWindow("meshview")

	var c *controller.Controller
	renderer := fynecanvas.New(func(ev render.Event) {
		c.InputEvent(ev)
		c.Flush()
	})

	opts := controllerOptions(cfg)
	opts.OnStatus = func(vs viewer.ViewState, m *mesh.Mesh) {
		name := ""
		if m != nil {
			name = m.Name
		}
		w.SetTitle(statusTitle(vs, name))
	}
	c = controller.New(renderer, opts)

	if err := openInitial(c, path); err != nil {
		return err
	}
	c.SetRenderMode(mode)

	fw, err := startAutoReload(cfg, path, func(p string) {
		fyne.Do(func() { c.Open(p) })
	})
	if err != nil {
		return err
	}
	if fw != nil {
		defer fw.Close()
	}

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.Key1:
			c.SetPreset((*viewer.ViewState).PresetXY)
		case fyne.Key2:
			c.SetPreset((*viewer.ViewState).PresetXZ)
		case fyne.Key3:
			c.SetPreset((*viewer.ViewState).PresetYZ)
		case fyne.KeyM:
			c.CycleRenderMode()
		case fyne.KeyR, fyne.KeyHome:
			c.ResetView()
		default:
			return
		}
		c.Flush()
	})

	// Pump for async load results; input handlers flush on their own
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			fyne.Do(c.Flush)
		}
	}()

	w.SetContent(renderer)
	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	c.Flush()
	w.ShowAndRun()

	c.Shutdown()
	return nil
}
