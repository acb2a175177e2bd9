package mesh

import "github.com/precisesim/meshview/pkg/geometry"

// UnitCube returns the default model displayed before any file is
// opened: a unit cube with 8 vertices and 12 triangles.
func UnitCube() *Mesh {
	vertices := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	faces := []Face{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{0, 1, 5}, {0, 5, 4}, // front
		{1, 2, 6}, {1, 6, 5}, // right
		{2, 3, 7}, {2, 7, 6}, // back
		{3, 0, 4}, {3, 4, 7}, // left
		{4, 5, 6}, {4, 6, 7}, // top
	}

	m, err := New(vertices, faces)
	if err != nil {
		panic(err) // static geometry, cannot fail
	}
	m.Name = "cube"
	return m
}
