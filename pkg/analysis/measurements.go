// Package analysis computes summary measurements over a loaded mesh,
// backing the "info" command.
package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
)

// Report contains the measurements of a mesh
type Report struct {
	Name          string
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	Volume        float64 // signed enclosed volume; only meaningful for closed meshes
	VertexCount   int
	TriangleCount int
	EdgeCount     int // unique undirected edges
	Degenerate    int

	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Analyze measures the mesh
func Analyze(m *mesh.Mesh) *Report {
	report := &Report{
		Name:          m.Name,
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   m.SurfaceArea(),
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
	}
	report.Dimensions = report.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	edges := m.EdgeSegments()
	report.EdgeCount = len(edges)
	for _, edge := range edges {
		length := m.Vertex(edge.A).Distance(m.Vertex(edge.B))
		totalLength += length
		if length < minLength {
			minLength = length
		}
		if length > maxLength {
			maxLength = length
		}
	}
	if report.EdgeCount > 0 {
		report.MinEdgeLength = minLength
		report.MaxEdgeLength = maxLength
		report.AvgEdgeLength = totalLength / float64(report.EdgeCount)
	}

	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		if tri.IsDegenerate() {
			report.Degenerate++
		}
		// Divergence theorem: sum of signed tetrahedron volumes
		// against the origin
		report.Volume += tri.V1.Dot(tri.V2.Cross(tri.V3)) / 6.0
	}

	return report
}

// String formats the report for terminal output
func (r *Report) String() string {
	var b strings.Builder

	name := r.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "Model:         %s\n", name)
	fmt.Fprintf(&b, "Vertices:      %d\n", r.VertexCount)
	fmt.Fprintf(&b, "Triangles:     %d\n", r.TriangleCount)
	fmt.Fprintf(&b, "Edges:         %d\n", r.EdgeCount)
	if r.Degenerate > 0 {
		fmt.Fprintf(&b, "Degenerate:    %d\n", r.Degenerate)
	}
	fmt.Fprintf(&b, "Dimensions:    %.3f x %.3f x %.3f\n", r.Dimensions.X, r.Dimensions.Y, r.Dimensions.Z)
	fmt.Fprintf(&b, "Surface area:  %.3f\n", r.SurfaceArea)
	fmt.Fprintf(&b, "Volume:        %.3f\n", math.Abs(r.Volume))
	if r.EdgeCount > 0 {
		fmt.Fprintf(&b, "Edge length:   min %.4f / avg %.4f / max %.4f\n",
			r.MinEdgeLength, r.AvgEdgeLength, r.MaxEdgeLength)
	}
	return b.String()
}
