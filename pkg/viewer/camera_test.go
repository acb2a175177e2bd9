package viewer

import (
	"math"
	"testing"

	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
)

func TestCameraForDistanceScalesWithZoom(t *testing.T) {
	vs := New(DefaultLimits())
	vs.FitTo(mesh.UnitCube())

	near := CameraFor(*vs)
	vs.ApplyDelta(0, 0, 1, 0, 0) // zoom in
	nearer := CameraFor(*vs)

	d1 := near.Position.Distance(near.Target)
	d2 := nearer.Position.Distance(nearer.Target)
	if d2 >= d1 {
		t.Errorf("zooming in should move the camera closer: %v -> %v", d1, d2)
	}
}

func TestCameraForLooksAtTarget(t *testing.T) {
	vs := New(DefaultLimits())
	vs.FitTo(mesh.UnitCube())

	cam := CameraFor(*vs)
	if cam.Target.Distance(vs.Target) > 1e-10 {
		t.Errorf("camera target mismatch: %v vs %v", cam.Target, vs.Target)
	}

	wantDist := vs.Distance / vs.Zoom
	gotDist := cam.Position.Distance(cam.Target)
	if math.Abs(gotDist-wantDist) > 1e-10 {
		t.Errorf("orbit distance mismatch: expected %v, got %v", wantDist, gotDist)
	}
}

func TestProjectCenterOfView(t *testing.T) {
	vs := New(DefaultLimits())
	vs.FitTo(mesh.UnitCube())
	cam := CameraFor(*vs)

	// The look-at target projects to the screen center
	x, y, z := cam.Project(cam.Target, 800, 600)
	if math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
		t.Errorf("target should project to screen center, got (%v, %v)", x, y)
	}
	if z <= 0 {
		t.Errorf("target depth should be positive, got %v", z)
	}
}

func TestProjectDepthOrdering(t *testing.T) {
	vs := New(DefaultLimits())
	vs.Target = geometry.NewVector3(0, 0, 0)
	vs.Distance = 10

	cam := CameraFor(*vs)
	toward := cam.Position.Sub(cam.Target).Normalize()

	_, _, zNear := cam.Project(cam.Target.Add(toward), 800, 600)
	_, _, zFar := cam.Project(cam.Target.Sub(toward), 800, 600)

	if zNear >= zFar {
		t.Errorf("point closer to camera must have smaller depth: %v vs %v", zNear, zFar)
	}
}
