package formats

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
)

// ParseOBJ decodes the Wavefront OBJ subset needed for mesh viewing:
// v (vertex), vn (normal) and f (face) directives. Faces with more
// than three indices are fan-triangulated since the mesh is triangle
// only. Unsupported directives (materials, groups, texture
// coordinates) are ignored without failing.
func ParseOBJ(data []byte) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var vertices []geometry.Vector3
	var vertexNormals []geometry.Vector3
	var faces []mesh.Face
	var faceNormals []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, parseErrorf("", "obj", "line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseVec3(fields)
			if err != nil {
				return nil, parseErrorf("", "obj", "line %d: invalid vertex coordinate", lineNo)
			}
			vertices = append(vertices, v)

		case "vn":
			if len(fields) < 4 {
				return nil, parseErrorf("", "obj", "line %d: normal needs 3 coordinates", lineNo)
			}
			n, err := parseVec3(fields)
			if err != nil {
				return nil, parseErrorf("", "obj", "line %d: invalid normal coordinate", lineNo)
			}
			vertexNormals = append(vertexNormals, n)

		case "f":
			if len(fields) < 4 {
				return nil, parseErrorf("", "obj", "line %d: face needs at least 3 vertices", lineNo)
			}

			indices := make([]int, 0, len(fields)-1)
			normalIdx := -1
			for _, ref := range fields[1:] {
				vi, ni, err := parseFaceRef(ref)
				if err != nil {
					return nil, parseErrorf("", "obj", "line %d: invalid face reference %q", lineNo, ref)
				}

				idx, err := resolveIndex(vi, len(vertices))
				if err != nil {
					return nil, parseErrorf("", "obj",
						"line %d: face references vertex %d, file defines %d vertices", lineNo, vi, len(vertices))
				}
				indices = append(indices, idx)

				if ni != 0 && normalIdx < 0 {
					if resolved, err := resolveIndex(ni, len(vertexNormals)); err == nil {
						normalIdx = resolved
					}
				}
			}

			// Fan triangulation: an N-gon becomes N-2 triangles
			// sharing the first vertex
			for i := 1; i < len(indices)-1; i++ {
				faces = append(faces, mesh.Face{indices[0], indices[i], indices[i+1]})
				if normalIdx >= 0 {
					faceNormals = append(faceNormals, vertexNormals[normalIdx])
				} else {
					faceNormals = append(faceNormals, geometry.Vector3{})
				}
			}

		default:
			// mtllib, usemtl, g, o, s, vt and friends are not needed
			// for viewing
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Format: "obj", Message: "error reading OBJ", Err: err}
	}

	m, err := mesh.NewWithNormals(vertices, faces, faceNormals)
	if err != nil {
		return nil, &ParseError{Format: "obj", Message: err.Error(), Err: err}
	}
	return m, nil
}

func parseVec3(fields []string) (geometry.Vector3, error) {
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geometry.Vector3{}, err
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return geometry.Vector3{}, err
	}
	z, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return geometry.NewVector3(x, y, z), nil
}

// parseFaceRef decodes one face vertex reference in any of the forms
// v, v/vt, v//vn or v/vt/vn, returning the vertex and normal indices
// (1-based, 0 when absent).
func parseFaceRef(ref string) (vertex, normal int, err error) {
	parts := strings.Split(ref, "/")

	vertex, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}

	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, err
		}
	}

	return vertex, normal, nil
}

// resolveIndex converts a 1-based OBJ index to 0-based. Negative
// indices count back from the most recently defined element.
func resolveIndex(idx, count int) (int, error) {
	switch {
	case idx > 0 && idx <= count:
		return idx - 1, nil
	case idx < 0 && -idx <= count:
		return count + idx, nil
	default:
		return 0, &ParseError{Format: "obj", Message: "index out of range"}
	}
}
