package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/precisesim/meshview/internal/controller"
	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/internal/render/webgl"
	"github.com/precisesim/meshview/pkg/config"
	"github.com/precisesim/meshview/pkg/viewer"
)

// runWebGL hosts the WebGL backend: the process serves the viewer page
// and runs a small event loop until interrupted. Browser input arrives
// on websocket goroutines and is funnelled through a channel so the
// controller stays single-threaded.
func runWebGL(path string, cfg config.Config, mode viewer.RenderMode) error {
	events := make(chan render.Event, 64)
	renderer, err := webgl.New(func(ev render.Event) {
		select {
		case events <- ev:
		default: // drop input bursts rather than block the socket
		}
	})
	if err != nil {
		return err
	}

	c := controller.New(renderer, controllerOptions(cfg))

	if err := openInitial(c, path); err != nil {
		return err
	}
	c.SetRenderMode(mode)
	c.Flush()

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

	fmt.Printf("Viewer running at %s (Ctrl+C to quit)\n", renderer.URL())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			c.InputEvent(ev)
		case p := <-reloads:
			c.Open(p)
		case <-ticker.C:
			c.Flush()
		case <-quit:
			c.Shutdown()
			return nil
		}
	}
}
