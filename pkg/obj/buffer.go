package obj

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/go-gl/mathgl/mgl32"
)

// Floats per vertex and per triangle in a VertexBuffer.
const (
	VertexStride   = 3
	TriangleStride = 3 * VertexStride
)

// VertexBuffer is a non-indexed triangle list: x,y,z per vertex, three
// vertices per triangle, in face declaration order. Treat it as read-only.
type VertexBuffer []float32

// VertexCount returns the number of vertices (corners) in the buffer.
func (b VertexBuffer) VertexCount() int {
	return len(b) / VertexStride
}

// TriangleCount returns the number of complete triangles.
func (b VertexBuffer) TriangleCount() int {
	return len(b) / TriangleStride
}

// ByteSize returns the size of the buffer in GPU memory.
func (b VertexBuffer) ByteSize() int {
	return len(b) * 4
}

// Vertex returns the i-th vertex position.
func (b VertexBuffer) Vertex(i int) mgl32.Vec3 {
	o := i * VertexStride
	return mgl32.Vec3{b[o], b[o+1], b[o+2]}
}

// FlatNormals returns one face normal per vertex, laid out like the buffer
// itself. Degenerate triangles get a zero normal.
func (b VertexBuffer) FlatNormals() []float32 {
	normals := make([]float32, 0, b.TriangleCount()*TriangleStride)

	for t := 0; t < b.TriangleCount(); t++ {
		v0 := b.Vertex(t * 3)
		v1 := b.Vertex(t*3 + 1)
		v2 := b.Vertex(t*3 + 2)

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}

		for i := 0; i < 3; i++ {
			normals = append(normals, n[0], n[1], n[2])
		}
	}

	return normals
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty buffer yields a zero box.
func (b VertexBuffer) Bounds() dvec3.Box {
	if b.VertexCount() == 0 {
		return dvec3.Box{}
	}

	box := dvec3.MinBox
	for i := 0; i < b.VertexCount(); i++ {
		v := b.Vertex(i)
		p := dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])}
		point := dvec3.Box{Min: p, Max: p}
		box.Join(&point)
	}
	return box
}
