package viewer

import (
	"math"

	"github.com/precisesim/meshview/pkg/geometry"
)

// Camera is the concrete orbit camera derived from a ViewState
// snapshot. Adapters that do their own projection (the immediate-mode
// backend, tests) use it directly; GPU backends only need Position,
// Target and Up.
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in radians
}

// CameraFor places an orbit camera according to the view state:
// spherical position from azimuth/elevation, distance scaled by the
// inverse zoom, target offset by pan in the view plane.
func CameraFor(vs ViewState) Camera {
	azimuth := vs.Azimuth * math.Pi / 180
	elevation := vs.Elevation * math.Pi / 180

	// Keep a sliver away from the poles so the view basis stays valid
	limit := math.Pi/2 - 1e-4
	if elevation > limit {
		elevation = limit
	}
	if elevation < -limit {
		elevation = -limit
	}

	distance := vs.Distance / vs.Zoom
	if distance <= 0 {
		distance = 1
	}

	offset := geometry.NewVector3(
		distance*math.Cos(elevation)*math.Cos(azimuth),
		distance*math.Cos(elevation)*math.Sin(azimuth),
		distance*math.Sin(elevation),
	)

	cam := Camera{
		Target: vs.Target,
		Up:     geometry.NewVector3(0, 0, 1),
		FOV:    math.Pi / 4,
	}
	cam.Position = cam.Target.Add(offset)

	// Pan shifts both camera and target in the view plane so the
	// orbit pivot moves with the view
	if vs.Pan[0] != 0 || vs.Pan[1] != 0 {
		forward := cam.Target.Sub(cam.Position).Normalize()
		right := forward.Cross(cam.Up).Normalize()
		up := right.Cross(forward).Normalize()

		panScale := distance * 0.001
		shift := right.Mul(-vs.Pan[0] * panScale).Add(up.Mul(vs.Pan[1] * panScale))
		cam.Position = cam.Position.Add(shift)
		cam.Target = cam.Target.Add(shift)
	}

	return cam
}

// Project projects a 3D point to 2D screen coordinates, returning the
// screen position and the camera-space depth.
func (c Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01 // behind or on the camera plane
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
