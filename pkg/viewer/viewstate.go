// Package viewer holds the backend-independent view state and camera
// math. Every renderer adapter derives its own backend camera
// parameters from these normalized values.
package viewer

import (
	"math"

	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
)

// RenderMode selects how the mesh surface is displayed
type RenderMode int

const (
	ModeSolid RenderMode = iota
	ModeWireframe
	ModeSolidEdges
)

func (m RenderMode) String() string {
	switch m {
	case ModeSolid:
		return "solid"
	case ModeWireframe:
		return "wireframe"
	case ModeSolidEdges:
		return "solid + wireframe"
	default:
		return "unknown"
	}
}

// Next cycles through the render modes
func (m RenderMode) Next() RenderMode {
	switch m {
	case ModeSolid:
		return ModeWireframe
	case ModeWireframe:
		return ModeSolidEdges
	default:
		return ModeSolid
	}
}

// Limits bound the zoom range and set the fit margin
type Limits struct {
	ZoomMin float64
	ZoomMax float64
	Margin  float64 // bounding box visibility margin for FitTo
}

// DefaultLimits returns the standard zoom and margin configuration
func DefaultLimits() Limits {
	return Limits{ZoomMin: 0.05, ZoomMax: 50.0, Margin: 1.1}
}

// ViewState holds the orbit camera parameters and display options.
// Angles are in degrees; azimuth wraps modulo 360 and elevation is
// clamped to [-90, 90] so the camera cannot flip. Zoom stays within
// the configured positive range to avoid degenerate projection.
type ViewState struct {
	Azimuth   float64
	Elevation float64
	Zoom      float64
	Pan       [2]float64
	Mode      RenderMode

	// Fit parameters derived from the mesh bounds
	Target   geometry.Vector3
	Distance float64

	limits Limits
}

// New creates a view state with the default orientation
func New(limits Limits) *ViewState {
	if limits.ZoomMin <= 0 {
		limits = DefaultLimits()
	}
	vs := &ViewState{limits: limits}
	vs.Reset()
	return vs
}

// Reset restores the default oblique view orientation. Azimuth stays
// in the wrapped [0, 360) domain, so 300 rather than -60: applying a
// zero delta must never renormalize the state.
func (vs *ViewState) Reset() {
	vs.Azimuth = 300
	vs.Elevation = 30
	vs.Zoom = 1
	vs.Pan = [2]float64{0, 0}
}

// Limits returns the configured zoom/margin bounds
func (vs *ViewState) Limits() Limits {
	return vs.limits
}

// ApplyDelta applies an incremental change from user input. A zero
// delta leaves the state unchanged.
func (vs *ViewState) ApplyDelta(dAzimuth, dElevation, dZoom, dPanX, dPanY float64) {
	vs.Azimuth = math.Mod(vs.Azimuth+dAzimuth, 360)
	if vs.Azimuth < 0 {
		vs.Azimuth += 360
	}

	vs.Elevation = clamp(vs.Elevation+dElevation, -90, 90)
	vs.Zoom = clamp(vs.Zoom+dZoom, vs.limits.ZoomMin, vs.limits.ZoomMax)
	vs.Pan[0] += dPanX
	vs.Pan[1] += dPanY
}

// FitTo resets pan and zoom so the mesh bounding box is fully visible
// with the configured margin. The camera distance is derived from the
// bounding box diagonal, which is projection-agnostic: each renderer
// adapter maps Target/Distance/Zoom onto its own camera.
func (vs *ViewState) FitTo(m *mesh.Mesh) {
	bbox := m.BoundingBox()
	vs.Target = bbox.Center()
	vs.Pan = [2]float64{0, 0}
	vs.Zoom = 1

	diagonal := bbox.Diagonal()
	if diagonal == 0 {
		diagonal = 1 // empty or single-point mesh
	}
	vs.Distance = diagonal * vs.limits.Margin
}

// View presets matching the classic orthographic directions

// PresetXY looks down the Z axis at the XY plane
func (vs *ViewState) PresetXY() {
	vs.Azimuth, vs.Elevation = 270, 90
}

// PresetXZ looks down the Y axis at the XZ plane
func (vs *ViewState) PresetXZ() {
	vs.Azimuth, vs.Elevation = 270, 0
}

// PresetYZ looks down the X axis at the YZ plane
func (vs *ViewState) PresetYZ() {
	vs.Azimuth, vs.Elevation = 0, 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
