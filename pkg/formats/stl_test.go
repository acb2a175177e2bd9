package formats

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/precisesim/meshview/pkg/geometry"
)

// writeBinarySTL builds a binary STL payload with the given declared
// triangle count and actual triangles.
func writeBinarySTL(declared uint32, triangles [][3]geometry.Vector3) []byte {
	buf := make([]byte, 0, 84+50*len(triangles))

	header := make([]byte, 80)
	copy(header, "test model")
	buf = append(buf, header...)

	count := make([]byte, 4)
	binary.LittleEndian.PutUint32(count, declared)
	buf = append(buf, count...)

	putF32 := func(f float64) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(f)))
		return b
	}

	for _, tri := range triangles {
		normal := geometry.NewTriangle(tri[0], tri[1], tri[2]).Normal()
		for _, v := range []geometry.Vector3{normal, tri[0], tri[1], tri[2]} {
			buf = append(buf, putF32(v.X)...)
			buf = append(buf, putF32(v.Y)...)
			buf = append(buf, putF32(v.Z)...)
		}
		buf = append(buf, 0, 0) // attribute byte count
	}

	return buf
}

func cubeTriangles() [][3]geometry.Vector3 {
	corners := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, {0, 1, 5, 4}, {1, 2, 6, 5},
		{2, 3, 7, 6}, {3, 0, 4, 7}, {4, 5, 6, 7},
	}
	var tris [][3]geometry.Vector3
	for _, q := range quads {
		tris = append(tris,
			[3]geometry.Vector3{corners[q[0]], corners[q[1]], corners[q[2]]},
			[3]geometry.Vector3{corners[q[0]], corners[q[2]], corners[q[3]]},
		)
	}
	return tris
}

func TestParseSTLBinaryCube(t *testing.T) {
	tris := cubeTriangles()
	data := writeBinarySTL(uint32(len(tris)), tris)

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
	if m.Name != "test model" {
		t.Errorf("expected name from header, got %q", m.Name)
	}

	// Every face index must be in range
	for i := 0; i < m.TriangleCount(); i++ {
		for _, idx := range m.Face(i) {
			if idx < 0 || idx >= m.VertexCount() {
				t.Fatalf("face %d references out-of-range vertex %d", i, idx)
			}
		}
	}

	// STL triangle soup: 36 vertices, welding recovers the 8 corners
	if m.VertexCount() != 36 {
		t.Errorf("expected 36 raw vertices, got %d", m.VertexCount())
	}
	if welded := m.Weld(1e-6); welded.VertexCount() != 8 {
		t.Errorf("expected 8 welded vertices, got %d", welded.VertexCount())
	}

	// Bounding box diagonal of the unit cube
	if math.Abs(m.BoundingBox().Diagonal()-math.Sqrt(3)) > 1e-6 {
		t.Errorf("unexpected diagonal %v", m.BoundingBox().Diagonal())
	}
}

func TestParseSTLBinaryTruncated(t *testing.T) {
	tris := cubeTriangles()[:10]
	data := writeBinarySTL(100, tris) // declares 100, provides 10

	_, err := ParseSTL(data)
	if err == nil {
		t.Fatal("expected error for truncated binary STL")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestParseSTLBinaryTrailingPadding(t *testing.T) {
	tris := cubeTriangles()
	data := writeBinarySTL(uint32(len(tris)), tris)
	data = append(data, make([]byte, 32)...) // exporters sometimes pad

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("trailing padding should be tolerated: %v", err)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
}

func TestParseSTLBinaryTooShort(t *testing.T) {
	if _, err := ParseSTL(make([]byte, 40)); err == nil {
		t.Fatal("expected error for file shorter than STL header")
	}
}

func TestParseSTLASCII(t *testing.T) {
	data := []byte(`solid ascii test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid ascii test
`)

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if m.Name != "ascii test" {
		t.Errorf("expected name %q, got %q", "ascii test", m.Name)
	}
	if m.FaceNormal(0).Distance(geometry.NewVector3(0, 0, 1)) > 1e-10 {
		t.Errorf("unexpected face normal %v", m.FaceNormal(0))
	}
}

func TestParseSTLASCIIMissingEndsolid(t *testing.T) {
	data := []byte(`solid
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
`)

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("missing endsolid should be tolerated: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestParseSTLASCIIBadVertex(t *testing.T) {
	data := []byte(`solid
facet normal 0 0 1
outer loop
vertex 0 zero 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
endsolid
`)

	_, err := ParseSTL(data)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for bad coordinate, got %v", err)
	}
}

func TestParseSTLBinaryWithSolidHeader(t *testing.T) {
	// Some binary exporters write "solid" into the comment header;
	// detection must not mistake those files for ASCII.
	tris := cubeTriangles()
	data := writeBinarySTL(uint32(len(tris)), tris)
	copy(data[:80], make([]byte, 80))
	copy(data[:80], "solid exported binary")

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()

	stlPath := filepath.Join(dir, "cube.stl")
	if err := os.WriteFile(stlPath, writeBinarySTL(12, cubeTriangles()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(stlPath); err != nil {
		t.Errorf("Load(.stl) failed: %v", err)
	}

	objPath := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(objPath); err != nil {
		t.Errorf("Load(.obj) failed: %v", err)
	}

	badPath := filepath.Join(dir, "scene.step")
	if err := os.WriteFile(badPath, []byte("ISO-10303"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(badPath)
	var ue *UnsupportedFormatError
	if !errors.As(err, &ue) {
		t.Errorf("expected *UnsupportedFormatError, got %v", err)
	}

	_, err = Load(filepath.Join(dir, "missing.stl"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected *ParseError for missing file, got %v", err)
	}
}
