package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
)

func TestAnalyzeUnitCube(t *testing.T) {
	report := Analyze(mesh.UnitCube())

	if report.TriangleCount != 12 {
		t.Errorf("expected 12 triangles, got %d", report.TriangleCount)
	}
	if report.VertexCount != 8 {
		t.Errorf("expected 8 vertices, got %d", report.VertexCount)
	}
	if report.EdgeCount != 18 {
		t.Errorf("expected 18 unique edges, got %d", report.EdgeCount)
	}
	if math.Abs(report.SurfaceArea-6.0) > 1e-9 {
		t.Errorf("expected surface area 6, got %g", report.SurfaceArea)
	}
	if math.Abs(math.Abs(report.Volume)-1.0) > 1e-9 {
		t.Errorf("expected enclosed volume 1, got %g", report.Volume)
	}
	if report.Degenerate != 0 {
		t.Errorf("cube has no degenerate faces, got %d", report.Degenerate)
	}

	size := report.Dimensions
	if size.X != 1 || size.Y != 1 || size.Z != 1 {
		t.Errorf("expected 1x1x1 dimensions, got %+v", size)
	}

	// Cube edges are either 1 (sides) or sqrt(2) (face diagonals)
	if math.Abs(report.MinEdgeLength-1.0) > 1e-9 {
		t.Errorf("expected min edge 1, got %g", report.MinEdgeLength)
	}
	if math.Abs(report.MaxEdgeLength-math.Sqrt2) > 1e-9 {
		t.Errorf("expected max edge sqrt(2), got %g", report.MaxEdgeLength)
	}
}

func TestAnalyzeCountsDegenerateFaces(t *testing.T) {
	vertices := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	}
	m, err := mesh.New(vertices, []mesh.Face{{0, 1, 2}, {0, 0, 1}})
	if err != nil {
		t.Fatal(err)
	}

	report := Analyze(m)
	if report.Degenerate != 1 {
		t.Errorf("expected 1 degenerate face, got %d", report.Degenerate)
	}
}

func TestReportString(t *testing.T) {
	out := Analyze(mesh.UnitCube()).String()

	for _, want := range []string{"Triangles:", "12", "Surface area:", "6.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}
