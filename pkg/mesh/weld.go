package mesh

import (
	"math"

	"github.com/precisesim/meshview/pkg/geometry"
)

// Weld returns a new mesh with vertices closer than tolerance merged
// into one. STL stores every triangle independently, so welding is what
// recovers shared vertices across adjacent faces. It is an explicit
// post-process step, never part of parsing, and preserves the face
// count exactly.
func (m *Mesh) Weld(tolerance float64) *Mesh {
	if tolerance <= 0 {
		tolerance = 1e-9
	}

	type cell struct{ x, y, z int64 }
	quantize := func(v geometry.Vector3) cell {
		return cell{
			x: int64(math.Round(v.X / tolerance)),
			y: int64(math.Round(v.Y / tolerance)),
			z: int64(math.Round(v.Z / tolerance)),
		}
	}

	remap := make([]int, len(m.vertices))
	index := make(map[cell]int)
	welded := make([]geometry.Vector3, 0, len(m.vertices))

	for i, v := range m.vertices {
		key := quantize(v)
		if j, ok := index[key]; ok {
			remap[i] = j
			continue
		}
		index[key] = len(welded)
		remap[i] = len(welded)
		welded = append(welded, v)
	}

	faces := make([]Face, len(m.faces))
	for i, face := range m.faces {
		faces[i] = Face{remap[face[0]], remap[face[1]], remap[face[2]]}
	}

	out := &Mesh{
		Name:     m.Name,
		vertices: welded,
		faces:    faces,
		bounds:   m.bounds,
	}
	if m.normals != nil {
		normals := make([]geometry.Vector3, len(m.normals))
		copy(normals, m.normals)
		out.normals = normals
	}
	return out
}
