package formats

import (
	"errors"
	"testing"

	"github.com/precisesim/meshview/pkg/geometry"
)

func TestParseOBJTriangle(t *testing.T) {
	data := []byte(`# simple triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	m, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestParseOBJQuadFanTriangulation(t *testing.T) {
	data := []byte(`v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	m, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("expected quad to fan-triangulate into 2 triangles, got %d", m.TriangleCount())
	}

	// Both triangles share the quad's first vertex
	if m.Face(0)[0] != 0 || m.Face(1)[0] != 0 {
		t.Errorf("fan triangles must share the first vertex: %v, %v", m.Face(0), m.Face(1))
	}
}

func TestParseOBJPentagon(t *testing.T) {
	data := []byte(`v 0 0 0
v 1 0 0
v 1.5 1 0
v 0.5 1.8 0
v -0.5 1 0
f 1 2 3 4 5
`)

	m, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	// N-gon becomes N-2 triangles
	if m.TriangleCount() != 3 {
		t.Errorf("expected 3 triangles from pentagon, got %d", m.TriangleCount())
	}
}

func TestParseOBJIndexForms(t *testing.T) {
	data := []byte(`v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
f 1/1/1 2/1/1 3//1
`)

	m, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
	}
	if m.FaceNormal(0).Distance(geometry.NewVector3(0, 0, 1)) > 1e-10 {
		t.Errorf("expected normal from vn directive, got %v", m.FaceNormal(0))
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	data := []byte(`v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)

	m, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	face := m.Face(0)
	if face != [3]int{0, 1, 2} {
		t.Errorf("negative indices resolved incorrectly: %v", face)
	}
}

func TestParseOBJUndefinedVertex(t *testing.T) {
	data := []byte(`v 0 0 0
v 1 0 0
f 1 2 7
`)

	_, err := ParseOBJ(data)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for undefined vertex, got %v", err)
	}
}

func TestParseOBJIgnoresUnsupportedDirectives(t *testing.T) {
	data := []byte(`mtllib scene.mtl
o part
g body
usemtl steel
s 1
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.5 0.5
f 1 2 3
`)

	m, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("unsupported directives must not fail the parse: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestParseOBJBadCoordinate(t *testing.T) {
	data := []byte("v 0 zero 0\n")

	_, err := ParseOBJ(data)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for bad coordinate, got %v", err)
	}
}
