// Package obj parses Wavefront OBJ models into flat triangle vertex buffers.
//
// Only the geometry subset needed for display is understood: vertex positions
// (v), texture coordinates (vt), normals (vn) and faces (f). Faces are reduced
// to their first three corners and resolved against the position list, giving
// a non-indexed buffer of nine floats per triangle.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OBJ loading errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format: expected .obj")
	ErrIO                = errors.New("model file i/o failed")
	ErrIndexOutOfRange   = errors.New("face index out of range")
	ErrEmptyModel        = errors.New("model has no triangles")
	ErrMalformedFace     = errors.New("malformed face record")
	ErrMalformedRecord   = errors.New("malformed numeric record")
)

// Extension is the file extension accepted by Load (compared case-insensitively).
const Extension = ".obj"

// maxLineSize bounds a single OBJ line. Exporters sometimes write very long
// face lines for n-gons.
const maxLineSize = 1 << 20

// RawMesh holds the records of an OBJ file before face resolution.
type RawMesh struct {
	Positions []float32 // x,y,z per v record
	TexCoords []float32 // u,v per vt record
	Normals   []float32 // x,y,z per vn record
	Faces     []int     // one-based position indices, three per face
}

// PositionCount returns the number of complete xyz positions.
func (m *RawMesh) PositionCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of face triples.
func (m *RawMesh) FaceCount() int {
	return len(m.Faces) / 3
}

// Supported reports whether path carries the .obj extension.
func Supported(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Load reads an OBJ file and returns its flattened triangle buffer.
func Load(path string) (VertexBuffer, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	mesh, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	buf, err := mesh.Flatten()
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", filepath.Base(path), err)
	}
	if buf.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyModel, filepath.Base(path))
	}

	return buf, nil
}

// Parse reads OBJ records from r.
// Unknown record types, including comments, are skipped.
func Parse(r io.Reader) (*RawMesh, error) {
	mesh := &RawMesh{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			mesh.Positions, err = appendFloats(mesh.Positions, fields[1:])
		case "vt":
			mesh.TexCoords, err = appendFloats(mesh.TexCoords, fields[1:])
		case "vn":
			mesh.Normals, err = appendFloats(mesh.Normals, fields[1:])
		case "f":
			mesh.Faces, err = appendFace(mesh.Faces, fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return mesh, nil
}

// Flatten resolves every face index against the position list.
// The first bad index aborts the whole conversion.
func (m *RawMesh) Flatten() (VertexBuffer, error) {
	buf := make(VertexBuffer, 0, len(m.Faces)*3)

	for i, index := range m.Faces {
		if index < 1 || index > m.PositionCount() {
			return nil, fmt.Errorf("%w: face %d references vertex %d, have %d",
				ErrIndexOutOfRange, i/3+1, index, m.PositionCount())
		}
		offset := (index - 1) * 3
		buf = append(buf, m.Positions[offset], m.Positions[offset+1], m.Positions[offset+2])
	}

	return buf, nil
}

// appendFloats parses every token as a float32.
func appendFloats(dst []float32, tokens []string) ([]float32, error) {
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return dst, fmt.Errorf("%w: %q", ErrMalformedRecord, tok)
		}
		dst = append(dst, float32(v))
	}
	return dst, nil
}

// appendFace takes the first three corners of a face. Corners written as
// v/vt/vn keep only the position index.
func appendFace(dst []int, tokens []string) ([]int, error) {
	if len(tokens) < 3 {
		return dst, fmt.Errorf("%w: need 3 indices, got %d", ErrMalformedFace, len(tokens))
	}

	for _, tok := range tokens[:3] {
		pos, _, _ := strings.Cut(tok, "/")
		index, err := strconv.Atoi(pos)
		if err != nil {
			return dst, fmt.Errorf("%w: bad index %q", ErrMalformedFace, tok)
		}
		dst = append(dst, index)
	}
	return dst, nil
}
