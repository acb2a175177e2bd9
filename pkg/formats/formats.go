// Package formats decodes STL (binary and ASCII) and OBJ files into
// triangle meshes. Parsers are pure functions from bytes to a mesh or
// an error; nothing is written back.
package formats

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/precisesim/meshview/pkg/mesh"
)

// Load reads a geometry file, dispatching on the file extension.
// Unknown extensions fail with *UnsupportedFormatError, malformed
// content with *ParseError.
func Load(path string) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".stl", ".stla":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ParseError{Path: path, Format: "stl", Message: "failed to read file", Err: err}
		}
		m, err := ParseSTL(data)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Path = path
			}
			return nil, err
		}
		return m, nil

	case ".obj":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ParseError{Path: path, Format: "obj", Message: "failed to read file", Err: err}
		}
		m, err := ParseOBJ(data)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Path = path
			}
			return nil, err
		}
		return m, nil

	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
}
