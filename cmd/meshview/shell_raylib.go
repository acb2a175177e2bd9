package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/precisesim/meshview/internal/controller"
	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/internal/render/raylibgl"
	"github.com/precisesim/meshview/pkg/config"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

// runRaylib hosts the OpenGL backend in a raylib window with a classic
// frame loop. Everything runs on the main thread; file change
// notifications arrive through a channel drained once per frame.
func runRaylib(path string, cfg config.Config, mode viewer.RenderMode) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "meshview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	renderer, err := raylibgl.New()
	if err != nil {
		return err
	}

	opts := controllerOptions(cfg)
	opts.OnStatus = func(vs viewer.ViewState, m *mesh.Mesh) {
		name := ""
		if m != nil {
			name = m.Name
		}
		rl.SetWindowTitle(statusTitle(vs, name))
	}
	c := controller.New(renderer, opts)

	if err := openInitial(c, path); err != nil {
		return err
	}
	c.SetRenderMode(mode)

	reloads := make(chan string, 1)
	fw, err := startAutoReload(cfg, path, func(p string) {
		select {
		case reloads <- p:
		default:
		}
	})
	if err != nil {
		return err
	}
	if fw != nil {
		defer fw.Close()
	}

	for !rl.WindowShouldClose() {
		select {
		case p := <-reloads:
			c.Open(p)
		default:
		}

		handleRaylibInput(c)

		if rl.IsWindowResized() {
			c.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
		}

		rl.BeginDrawing()
		// The GPU backend redraws every frame; coalescing still bounds
		// it to one render call.
		c.RequestRedraw()
		c.Flush()
		rl.EndDrawing()
	}

	c.Shutdown()
	return nil
}

func handleRaylibInput(c *controller.Controller) {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			kind := render.EventDrag
			if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
				kind = render.EventPan
			}
			c.InputEvent(render.Event{Kind: kind, DX: float64(delta.X), DY: float64(delta.Y)})
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.InputEvent(render.Event{Kind: render.EventScroll, DY: float64(wheel)})
	}

	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		c.SetPreset((*viewer.ViewState).PresetXY)
	case rl.IsKeyPressed(rl.KeyTwo):
		c.SetPreset((*viewer.ViewState).PresetXZ)
	case rl.IsKeyPressed(rl.KeyThree):
		c.SetPreset((*viewer.ViewState).PresetYZ)
	case rl.IsKeyPressed(rl.KeyM):
		c.CycleRenderMode()
	case rl.IsKeyPressed(rl.KeyR), rl.IsKeyPressed(rl.KeyHome):
		c.ResetView()
	}
}
