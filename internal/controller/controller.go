// Package controller orchestrates the viewer: it owns the session
// binding the loaded mesh to the view state and the active renderer
// adapter, translates input events into view deltas, and coalesces
// redraw requests so one input-handling turn triggers at most one draw
// call.
package controller

import (
	"fmt"
	"sync"

	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/pkg/formats"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

// State is the controller lifecycle state
type State int

const (
	Idle State = iota // no mesh loaded
	Loaded
	Closing
)

// Session binds the current mesh (nil pre-load) to its view state.
// It is the only mutable shared state in the system and is owned
// exclusively by the Controller.
type Session struct {
	Mesh *mesh.Mesh
	Path string
	View *viewer.ViewState
}

// Options configure a controller
type Options struct {
	Limits viewer.Limits

	// WeldTolerance enables vertex welding after parsing when > 0.
	// Welding is an explicit post-process, never part of decoding.
	WeldTolerance float64

	// OnError receives recoverable failures (parse errors, renderer
	// errors). The previously loaded session is always intact when
	// this fires.
	OnError func(error)

	// OnStatus receives a view state snapshot plus the loaded mesh
	// after every applied change, for status bar display.
	OnStatus func(viewer.ViewState, *mesh.Mesh)
}

// loadResult is a completed background parse
type loadResult struct {
	gen  uint64
	m    *mesh.Mesh
	path string
	err  error
}

// Controller owns the session and the active renderer adapter. All
// methods must be called from the GUI's main event-processing thread;
// the only cross-goroutine traffic is the background parse publishing
// its result into the pending slot, guarded by pendingMu.
type Controller struct {
	opts    Options
	session Session
	adapter render.Adapter
	state   State

	dirty bool // redraw requested, flushed at most once per turn

	pendingMu sync.Mutex
	pending   *loadResult
	loadGen   uint64 // monotonically increasing load generation
}

// New creates an idle controller rendering through the given adapter
func New(adapter render.Adapter, opts Options) *Controller {
	if opts.Limits.ZoomMin <= 0 {
		opts.Limits = viewer.DefaultLimits()
	}
	return &Controller{
		opts:    opts,
		adapter: adapter,
		state:   Idle,
		session: Session{View: viewer.New(opts.Limits)},
	}
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	return c.state
}

// Session returns a copy of the current session
func (c *Controller) Session() Session {
	return c.session
}

// ViewSnapshot returns the current view state by value
func (c *Controller) ViewSnapshot() viewer.ViewState {
	return *c.session.View
}

// ShowDefault displays the built-in unit cube, shown before any file
// is opened.
func (c *Controller) ShowDefault() error {
	return c.publish(mesh.UnitCube(), "")
}

// Open loads a mesh file asynchronously. The parse runs off the main
// thread so large files do not block input handling; the result is
// published on the next Flush. A newer Open supersedes any parse still
// in flight: stale results are dropped silently via the generation
// counter, so the session only ever reflects the most recent request.
// On parse failure the prior session is untouched and the error is
// surfaced through OnError.
func (c *Controller) Open(path string) {
	if c.state == Closing {
		return
	}

	c.pendingMu.Lock()
	c.loadGen++
	gen := c.loadGen
	// A result already delivered but not yet flushed is stale now;
	// dropping it here keeps Flush from publishing a superseded mesh
	// even for one frame.
	c.pending = nil
	c.pendingMu.Unlock()

	go func() {
		m, err := formats.Load(path)
		if err == nil && c.opts.WeldTolerance > 0 {
			m = m.Weld(c.opts.WeldTolerance)
		}
		c.deliver(&loadResult{gen: gen, m: m, path: path, err: err})
	}()
}

// OpenSync loads a mesh file on the calling thread. Used by the CLI
// for the initial file argument, where there is no event loop yet.
func (c *Controller) OpenSync(path string) error {
	m, err := formats.Load(path)
	if err != nil {
		c.reportError(err)
		return err
	}
	if c.opts.WeldTolerance > 0 {
		m = m.Weld(c.opts.WeldTolerance)
	}
	return c.publish(m, path)
}

// deliver stores a completed parse unless it has been superseded
func (c *Controller) deliver(res *loadResult) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if res.gen != c.loadGen {
		return // a newer Open is in flight; drop silently
	}
	c.pending = res
}

// takePending claims the latest completed parse, if any
func (c *Controller) takePending() *loadResult {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	res := c.pending
	c.pending = nil
	return res
}

// publish replaces the session mesh wholesale and refits the view.
// The mesh is fully constructed before it becomes visible here, so no
// draw call can observe a partially-built mesh.
func (c *Controller) publish(m *mesh.Mesh, path string) error {
	if warnings := m.Validate(); len(warnings) > 0 {
		c.reportError(fmt.Errorf("mesh has %d degenerate or non-finite faces (rendered as-is)", len(warnings)))
	}

	if err := c.adapter.Load(m); err != nil {
		c.reportError(err)
		return err
	}

	c.session.Mesh = m
	c.session.Path = path
	c.session.View.FitTo(m)
	c.state = Loaded
	c.RequestRedraw()
	c.notifyStatus()
	return nil
}

// Input sensitivity: degrees per pixel for orbit, zoom step per
// scroll unit.
const (
	orbitDegreesPerPixel = 0.4
	zoomPerScrollUnit    = 0.1
)

// InputEvent translates a pointer event into a view state delta and
// requests a redraw. Ignored while no mesh is loaded.
func (c *Controller) InputEvent(ev render.Event) {
	if c.state != Loaded {
		return
	}

	switch ev.Kind {
	case render.EventDrag:
		c.session.View.ApplyDelta(-ev.DX*orbitDegreesPerPixel, ev.DY*orbitDegreesPerPixel, 0, 0, 0)
	case render.EventPan:
		c.session.View.ApplyDelta(0, 0, 0, ev.DX, ev.DY)
	case render.EventScroll:
		c.session.View.ApplyDelta(0, 0, ev.DY*zoomPerScrollUnit, 0, 0)
	default:
		return
	}

	c.RequestRedraw()
	c.notifyStatus()
}

// SetRenderMode switches between solid, wireframe and solid+edges
func (c *Controller) SetRenderMode(mode viewer.RenderMode) {
	if c.state != Loaded {
		return
	}
	c.session.View.Mode = mode
	c.RequestRedraw()
	c.notifyStatus()
}

// CycleRenderMode advances to the next render mode
func (c *Controller) CycleRenderMode() {
	c.SetRenderMode(c.session.View.Mode.Next())
}

// SetPreset applies one of the axis-aligned view presets
func (c *Controller) SetPreset(preset func(*viewer.ViewState)) {
	if c.state != Loaded {
		return
	}
	preset(c.session.View)
	c.RequestRedraw()
	c.notifyStatus()
}

// ResetView restores the default orientation and refits the mesh
func (c *Controller) ResetView() {
	if c.state != Loaded {
		return
	}
	c.session.View.Reset()
	c.session.View.FitTo(c.session.Mesh)
	c.RequestRedraw()
	c.notifyStatus()
}

// SetAdapter swaps the rendering backend, releasing the old one and
// loading the current mesh into the new one.
func (c *Controller) SetAdapter(adapter render.Adapter) error {
	if c.adapter != nil {
		c.adapter.Teardown()
	}
	c.adapter = adapter
	if c.state == Loaded {
		if err := adapter.Load(c.session.Mesh); err != nil {
			c.reportError(err)
			return err
		}
		c.RequestRedraw()
	}
	return nil
}

// Resize forwards the new drawable size to the adapter
func (c *Controller) Resize(width, height int) {
	if c.state == Closing {
		return
	}
	c.adapter.OnResize(width, height)
	c.RequestRedraw()
}

// RequestRedraw marks the view dirty. Multiple requests within one
// turn collapse into a single draw call on Flush.
func (c *Controller) RequestRedraw() {
	c.dirty = true
}

// Flush applies any completed background load and issues at most one
// render call. The GUI shell calls this once per event-handling turn
// (or frame); this coalescing is what keeps the immediate-mode backend
// usable on large meshes.
func (c *Controller) Flush() {
	if c.state == Closing {
		return
	}

	if res := c.takePending(); res != nil {
		if res.err != nil {
			c.reportError(res.err)
		} else {
			// publish may fail on adapter load; error already reported
			_ = c.publish(res.m, res.path)
		}
	}

	if !c.dirty {
		return
	}
	c.dirty = false

	if err := c.adapter.Render(*c.session.View); err != nil {
		c.reportError(err)
	}
}

// Shutdown releases the renderer adapter and the mesh. Terminal.
func (c *Controller) Shutdown() {
	if c.state == Closing {
		return
	}
	c.state = Closing
	if c.adapter != nil {
		c.adapter.Teardown()
	}
	c.session.Mesh = nil
}

func (c *Controller) reportError(err error) {
	if c.opts.OnError != nil {
		c.opts.OnError(err)
	} else {
		fmt.Printf("Error: %v\n", err)
	}
}

func (c *Controller) notifyStatus() {
	if c.opts.OnStatus != nil {
		c.opts.OnStatus(*c.session.View, c.session.Mesh)
	}
}
