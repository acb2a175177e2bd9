// Package raylibgl is the OpenGL-embedded rendering backend. Geometry
// is uploaded once into a persistent GPU mesh when a file is loaded;
// each Render call only updates the camera, so frame cost is
// independent of how often the view changes.
package raylibgl

import (
	"errors"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

var errWindowNotReady = errors.New("window is not initialized")

// Renderer implements render.Adapter on top of a raylib window. The
// window and frame loop belong to the GUI shell; Render must be called
// between BeginDrawing and EndDrawing on the main thread.
type Renderer struct {
	mesh     *mesh.Mesh
	rlMesh   rl.Mesh
	material rl.Material
	hasMesh  bool
}

// New creates the adapter. The raylib window must already be
// initialized; failing that is an initialization error the caller can
// react to by choosing another backend.
func New() (*Renderer, error) {
	if !rl.IsWindowReady() {
		return nil, &render.InitError{Backend: "raylib", Err: errWindowNotReady}
	}
	return &Renderer{material: rl.LoadMaterialDefault()}, nil
}

// Load uploads the mesh into a persistent GPU buffer, replacing any
// previous one. Must run on the main thread.
func (r *Renderer) Load(m *mesh.Mesh) error {
	if r.hasMesh {
		rl.UnloadMesh(&r.rlMesh)
		r.hasMesh = false
	}

	r.mesh = m
	if m.TriangleCount() == 0 {
		return nil
	}

	r.rlMesh = buildMesh(m)
	rl.UploadMesh(&r.rlMesh, false)
	r.hasMesh = true
	return nil
}

// Render draws one frame for the view snapshot. Only the camera
// changes between frames; the geometry buffer is reused.
func (r *Renderer) Render(vs viewer.ViewState) error {
	rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

	if r.mesh == nil {
		return nil
	}

	cam := viewer.CameraFor(vs)
	rlCam := rl.Camera3D{
		Position:   toRl(cam.Position),
		Target:     toRl(cam.Target),
		Up:         toRl(cam.Up),
		Fovy:       float32(cam.FOV * 180 / math.Pi),
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(rlCam)

	if r.hasMesh && (vs.Mode == viewer.ModeSolid || vs.Mode == viewer.ModeSolidEdges) {
		rl.DrawMesh(r.rlMesh, r.material, rl.MatrixIdentity())
	}

	if vs.Mode == viewer.ModeWireframe || vs.Mode == viewer.ModeSolidEdges {
		lineColor := rl.NewColor(200, 200, 200, 255)
		if vs.Mode == viewer.ModeSolidEdges {
			lineColor = rl.NewColor(100, 100, 100, 200)
		}
		for _, edge := range r.mesh.EdgeSegments() {
			rl.DrawLine3D(toRl(r.mesh.Vertex(edge.A)), toRl(r.mesh.Vertex(edge.B)), lineColor)
		}
	}

	rl.EndMode3D()
	return nil
}

// OnResize is a no-op: raylib tracks the drawable size itself
func (r *Renderer) OnResize(width, height int) {}

// Teardown releases the GPU mesh. Must run before the window closes.
func (r *Renderer) Teardown() {
	if r.hasMesh {
		rl.UnloadMesh(&r.rlMesh)
		r.hasMesh = false
	}
	r.mesh = nil
}

// buildMesh flattens the indexed mesh into raylib's vertex arrays with
// per-face normals and baked diffuse lighting in the vertex colors.
func buildMesh(m *mesh.Mesh) rl.Mesh {
	triangleCount := m.TriangleCount()
	vertexCount := triangleCount * 3

	out := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	colors := make([]uint8, vertexCount*4)

	lightDir := rl.Vector3{X: -0.5, Y: -1.0, Z: -0.5}
	lightLen := float32(math.Sqrt(float64(lightDir.X*lightDir.X + lightDir.Y*lightDir.Y + lightDir.Z*lightDir.Z)))
	lightDir.X /= lightLen
	lightDir.Y /= lightLen
	lightDir.Z /= lightLen

	idx := 0
	for i := 0; i < triangleCount; i++ {
		tri := m.Triangle(i)
		normal := m.FaceNormal(i)

		dot := normal.X*float64(lightDir.X) + normal.Y*float64(lightDir.Y) + normal.Z*float64(lightDir.Z)
		intensity := math.Max(0.3, -dot)
		cr := uint8(200 * intensity * 0.5)
		cg := uint8(200 * intensity * 0.6)
		cb := uint8(200 * intensity)

		for _, v := range []geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			vertices[idx*3+0] = float32(v.X)
			vertices[idx*3+1] = float32(v.Y)
			vertices[idx*3+2] = float32(v.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			colors[idx*4+0] = cr
			colors[idx*4+1] = cg
			colors[idx*4+2] = cb
			colors[idx*4+3] = 255
			idx++
		}
	}

	if len(vertices) > 0 {
		out.Vertices = &vertices[0]
		out.Normals = &normals[0]
		out.Colors = &colors[0]
	}
	return out
}

func toRl(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
