// Package gltfexport converts a flattened OBJ vertex buffer into a glTF 2.0
// document with one non-indexed triangle mesh.
package gltfexport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshview/pkg/obj"
)

// Version is the glTF asset version written.
const Version = "2.0"

// Generator is written to asset.generator.
const Generator = "meshview objtool"

// ErrEmptyMesh is returned when the buffer has no triangle.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Options tunes the export.
type Options struct {
	Name    string // mesh and node name
	Normals bool   // include flat NORMAL attribute
}

// Build lays out buf as one buffer holding a position view followed by an
// optional normal view, with accessor bounds taken from the mesh.
func Build(buf obj.VertexBuffer, opts Options) (*gltf.Document, error) {
	if buf.TriangleCount() == 0 {
		return nil, ErrEmptyMesh
	}

	doc := &gltf.Document{}
	doc.Asset.Version = Version
	doc.Asset.Generator = Generator
	scene := uint32(0)
	doc.Scene = &scene
	doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: opts.Name})

	data := new(bytes.Buffer)
	count := uint32(buf.VertexCount())

	positions := &gltf.BufferView{
		Buffer:     0,
		ByteOffset: 0,
		ByteStride: obj.VertexStride * 4,
		Target:     gltf.TargetArrayBuffer,
	}
	if err := binary.Write(data, binary.LittleEndian, []float32(buf)); err != nil {
		return nil, fmt.Errorf("writing positions: %w", err)
	}
	positions.ByteLength = uint32(data.Len())
	doc.BufferViews = append(doc.BufferViews, positions)

	box := buf.Bounds()
	posAcc := &gltf.Accessor{
		BufferView:    index(0),
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         count,
		Min:           []float32{float32(box.Min[0]), float32(box.Min[1]), float32(box.Min[2])},
		Max:           []float32{float32(box.Max[0]), float32(box.Max[1]), float32(box.Max[2])},
	}
	doc.Accessors = append(doc.Accessors, posAcc)

	prim := &gltf.Primitive{
		Attributes: gltf.Attribute{"POSITION": 0},
		Mode:       gltf.PrimitiveTriangles,
	}

	if opts.Normals {
		normals := &gltf.BufferView{
			Buffer:     0,
			ByteOffset: uint32(data.Len()),
			ByteStride: obj.VertexStride * 4,
			Target:     gltf.TargetArrayBuffer,
		}
		if err := binary.Write(data, binary.LittleEndian, unitNormals(buf)); err != nil {
			return nil, fmt.Errorf("writing normals: %w", err)
		}
		normals.ByteLength = uint32(data.Len()) - normals.ByteOffset
		doc.BufferViews = append(doc.BufferViews, normals)

		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    index(1),
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         count,
		})
		prim.Attributes["NORMAL"] = 1
	}

	doc.Buffers = append(doc.Buffers, &gltf.Buffer{
		ByteLength: uint32(data.Len()),
		Data:       data.Bytes(),
	})

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       opts.Name,
		Primitives: []*gltf.Primitive{prim},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: opts.Name,
		Mesh: index(0),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

// unitNormals returns the flat normals of buf with the zero normals of
// degenerate triangles replaced by +Z. glTF requires unit-length normals.
func unitNormals(buf obj.VertexBuffer) []float32 {
	normals := buf.FlatNormals()
	for i := 0; i+2 < len(normals); i += obj.VertexStride {
		if normals[i] == 0 && normals[i+1] == 0 && normals[i+2] == 0 {
			normals[i+2] = 1
		}
	}
	return normals
}

func index(i uint32) *uint32 {
	return &i
}

// Write encodes doc as GLB when asBinary is set, otherwise as JSON glTF with
// the buffer embedded as a data URI.
func Write(w io.Writer, doc *gltf.Document, asBinary bool) error {
	if !asBinary {
		for _, b := range doc.Buffers {
			if b.URI == "" && len(b.Data) > 0 {
				b.EmbeddedResource()
			}
		}
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = asBinary
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding glTF: %w", err)
	}
	return nil
}

// IsBinaryPath reports whether path names a .glb file.
func IsBinaryPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".glb")
}

// Export converts buf and writes it to path. The container is chosen by the
// extension: .glb for binary, anything else for JSON.
func Export(buf obj.VertexBuffer, path string, opts Options) error {
	doc, err := Build(buf, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, doc, IsBinaryPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
