package mesh

import (
	"fmt"

	"github.com/precisesim/meshview/pkg/geometry"
)

// Face references three vertices by index
type Face [3]int

// Mesh is an immutable indexed triangle mesh. It is created once per
// successful parse and replaced wholesale when a new file is opened;
// there is no in-place editing.
type Mesh struct {
	Name     string
	vertices []geometry.Vector3
	faces    []Face
	normals  []geometry.Vector3 // per-face, may be nil
	bounds   geometry.BoundingBox
}

// New creates a mesh from vertices and faces. Every face index must be
// within [0, len(vertices)); a face referencing an out-of-range vertex
// is an error, never a silently-dropped face. A mesh with zero faces is
// valid and displays as empty.
func New(vertices []geometry.Vector3, faces []Face) (*Mesh, error) {
	for i, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, len(vertices))
			}
		}
	}

	bounds := geometry.NewBoundingBox()
	for _, v := range vertices {
		bounds.Extend(v)
	}

	return &Mesh{
		vertices: vertices,
		faces:    faces,
		bounds:   bounds,
	}, nil
}

// NewWithNormals creates a mesh with explicit per-face normals, one per face
func NewWithNormals(vertices []geometry.Vector3, faces []Face, normals []geometry.Vector3) (*Mesh, error) {
	if len(normals) != len(faces) {
		return nil, fmt.Errorf("normal count %d does not match face count %d", len(normals), len(faces))
	}
	m, err := New(vertices, faces)
	if err != nil {
		return nil, err
	}
	m.normals = normals
	return m, nil
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the number of faces
func (m *Mesh) TriangleCount() int {
	return len(m.faces)
}

// Vertex returns the vertex with the given index
func (m *Mesh) Vertex(i int) geometry.Vector3 {
	return m.vertices[i]
}

// Face returns the face with the given index
func (m *Mesh) Face(i int) Face {
	return m.faces[i]
}

// Triangle returns face i resolved to its vertex positions
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.faces[i]
	return geometry.NewTriangle(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
}

// FaceNormal returns the unit normal of face i. Normals stored by the
// parser take precedence; otherwise the normal is derived from the
// vertex positions. Degenerate faces yield the zero vector.
func (m *Mesh) FaceNormal(i int) geometry.Vector3 {
	if m.normals != nil {
		n := m.normals[i]
		if n != (geometry.Vector3{}) {
			return n.Normalize()
		}
	}
	return m.Triangle(i).Normal()
}

// BoundingBox returns the axis-aligned bounds computed over all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return m.bounds
}

// Centroid returns the center of the bounding box
func (m *Mesh) Centroid() geometry.Vector3 {
	return m.bounds.Center()
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.faces {
		total += m.Triangle(i).Area()
	}
	return total
}

// Edge is an undirected vertex index pair with A < B
type Edge struct {
	A, B int
}

// EdgeSegments returns the unique undirected edges of the mesh, used by
// wireframe rendering so shared edges are drawn once.
func (m *Mesh) EdgeSegments() []Edge {
	seen := make(map[Edge]bool)
	edges := make([]Edge, 0, len(m.faces)*3/2)

	for _, face := range m.faces {
		for i := 0; i < 3; i++ {
			a, b := face[i], face[(i+1)%3]
			if b < a {
				a, b = b, a
			}
			edge := Edge{A: a, B: b}
			if !seen[edge] {
				seen[edge] = true
				edges = append(edges, edge)
			}
		}
	}

	return edges
}

// Warning describes a non-fatal geometry defect found by Validate
type Warning struct {
	Face    int
	Message string
}

// Validate reports degenerate faces and non-finite coordinates. These
// are warnings rather than errors: the mesh still loads and affected
// faces are rendered as-is.
func (m *Mesh) Validate() []Warning {
	var warnings []Warning
	for i := range m.faces {
		tri := m.Triangle(i)
		if !tri.V1.IsFinite() || !tri.V2.IsFinite() || !tri.V3.IsFinite() {
			warnings = append(warnings, Warning{Face: i, Message: "non-finite vertex coordinate"})
			continue
		}
		if tri.IsDegenerate() {
			warnings = append(warnings, Warning{Face: i, Message: "zero-area face"})
		}
	}
	return warnings
}
