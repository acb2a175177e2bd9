// Package render defines the capability set every rendering backend
// implements. The controller holds exactly one Adapter through this
// interface and never branches on the concrete backend.
package render

import (
	"fmt"

	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

// Adapter translates the mesh model and view state into
// backend-specific draw calls. Whether Render re-uploads geometry each
// call or only updates camera parameters on a persistent scene buffer
// is the adapter's private concern.
type Adapter interface {
	// Load replaces the displayed mesh. Called once per file open.
	Load(m *mesh.Mesh) error

	// Render draws a frame for the given view state snapshot
	Render(vs viewer.ViewState) error

	// OnResize informs the backend of a new drawable size in pixels
	OnResize(width, height int)

	// Teardown releases backend-native resources. Guaranteed to run
	// on adapter replacement or application shutdown.
	Teardown()
}

// EventKind classifies a normalized pointer event
type EventKind int

const (
	EventDrag   EventKind = iota // orbit rotate
	EventPan                     // shift in the view plane
	EventScroll                  // zoom
)

// Event is a normalized pointer event reported by an adapter's input
// surface. Adapters translate their toolkit's raw events into these;
// the controller maps them onto view-state deltas.
type Event struct {
	Kind   EventKind
	DX, DY float64
}

// EventHandler receives normalized input events from an adapter
type EventHandler func(Event)

// InitError reports a backend that failed to acquire a drawing context
// or resource. It is fatal to that backend instance but not to the
// application: the caller may fall back to a different backend.
type InitError struct {
	Backend string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("renderer %s: initialization failed: %v", e.Backend, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
