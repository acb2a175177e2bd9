package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/precisesim/meshview/pkg/geometry"
	"github.com/precisesim/meshview/pkg/mesh"
)

const (
	stlHeaderSize   = 80
	stlRecordSize   = 50 // normal + 3 vertices (12 float32) + attribute count
	stlMinimumSize  = stlHeaderSize + 4
	asciiProbeLimit = 1024
)

// ParseSTL decodes an STL file, automatically detecting whether it is
// ASCII or binary. STL stores every triangle independently, so the
// resulting mesh is a triangle soup with three vertices per face; use
// Mesh.Weld to recover shared vertices.
func ParseSTL(data []byte) (*mesh.Mesh, error) {
	if isASCIISTL(data) {
		return parseSTLASCII(data)
	}
	return parseSTLBinary(data)
}

// isASCIISTL decides between the two STL encodings. The "solid" prefix
// alone is not sufficient: binary exporters routinely write it into the
// comment header, so the probe also requires a "facet" keyword early in
// the file.
func isASCIISTL(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	probe := data
	if len(probe) > asciiProbeLimit {
		probe = probe[:asciiProbeLimit]
	}
	return bytes.Contains(probe, []byte("facet")) || len(bytes.TrimSpace(data)) < stlMinimumSize
}

// parseSTLBinary decodes the fixed-layout binary encoding: an 80-byte
// comment header, a little-endian uint32 triangle count, then 50-byte
// triangle records. The declared count must fit the actual file length;
// trailing padding after the last record is tolerated.
func parseSTLBinary(data []byte) (*mesh.Mesh, error) {
	if len(data) < stlMinimumSize {
		return nil, parseErrorf("", "stl", "file too short for binary STL: %d bytes", len(data))
	}

	header := data[:stlHeaderSize]
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:stlMinimumSize])

	need := stlMinimumSize + int64(count)*stlRecordSize
	if int64(len(data)) < need {
		return nil, parseErrorf("", "stl",
			"truncated binary STL: header declares %d triangles (%d bytes), file has %d bytes",
			count, need, len(data))
	}

	vertices := make([]geometry.Vector3, 0, int(count)*3)
	faces := make([]mesh.Face, 0, count)
	normals := make([]geometry.Vector3, 0, count)

	le := binary.LittleEndian
	offset := stlMinimumSize
	for i := uint32(0); i < count; i++ {
		rec := data[offset : offset+stlRecordSize]
		offset += stlRecordSize

		var floats [12]float64
		for j := range floats {
			floats[j] = float64(math.Float32frombits(le.Uint32(rec[j*4:])))
		}

		normals = append(normals, geometry.NewVector3(floats[0], floats[1], floats[2]))

		base := len(vertices)
		vertices = append(vertices,
			geometry.NewVector3(floats[3], floats[4], floats[5]),
			geometry.NewVector3(floats[6], floats[7], floats[8]),
			geometry.NewVector3(floats[9], floats[10], floats[11]),
		)
		faces = append(faces, mesh.Face{base, base + 1, base + 2})
		// 2-byte attribute byte count at rec[48:50] is ignored
	}

	m, err := mesh.NewWithNormals(vertices, faces, normals)
	if err != nil {
		return nil, &ParseError{Format: "stl", Message: err.Error(), Err: err}
	}
	m.Name = strings.TrimRight(string(bytes.TrimRight(header, "\x00")), " ")
	return m, nil
}

// parseSTLASCII decodes the keyword grammar: solid / facet normal /
// outer loop / vertex x3 / endloop / endfacet / endsolid. Arbitrary
// whitespace is tolerated, as is a missing trailing endsolid.
func parseSTLASCII(data []byte) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var name string
	var vertices []geometry.Vector3
	var faces []mesh.Face
	var normals []geometry.Vector3

	var facetNormal geometry.Vector3
	var loop []geometry.Vector3
	lineNo := 0

	parseCoord := func(fields []string, from int) (geometry.Vector3, error) {
		var c [3]float64
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[from+i], 64)
			if err != nil {
				return geometry.Vector3{}, err
			}
			c[i] = f
		}
		return geometry.NewVector3(c[0], c[1], c[2]), nil
	}

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}

		case "facet":
			facetNormal = geometry.Vector3{}
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseCoord(fields, 2)
				if err != nil {
					return nil, parseErrorf("", "stl", "line %d: invalid facet normal", lineNo)
				}
				facetNormal = n
			}
			loop = loop[:0]

		case "vertex":
			if len(fields) < 4 {
				return nil, parseErrorf("", "stl", "line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseCoord(fields, 1)
			if err != nil {
				return nil, parseErrorf("", "stl", "line %d: invalid vertex coordinate", lineNo)
			}
			loop = append(loop, v)

		case "endfacet":
			if len(loop) != 3 {
				return nil, parseErrorf("", "stl", "line %d: facet has %d vertices, expected 3", lineNo, len(loop))
			}
			base := len(vertices)
			vertices = append(vertices, loop[0], loop[1], loop[2])
			faces = append(faces, mesh.Face{base, base + 1, base + 2})
			normals = append(normals, facetNormal)
			loop = loop[:0]

		case "outer", "endloop", "endsolid":
			// structural keywords, nothing to decode
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Format: "stl", Message: "error reading ASCII STL", Err: err}
	}

	m, err := mesh.NewWithNormals(vertices, faces, normals)
	if err != nil {
		return nil, &ParseError{Format: "stl", Message: err.Error(), Err: err}
	}
	m.Name = name
	return m, nil
}
