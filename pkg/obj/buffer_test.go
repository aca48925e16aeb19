package obj

import (
	"math"
	"testing"
)

func TestVertexBuffer_Counts(t *testing.T) {
	buf := VertexBuffer{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 1, 0}

	if buf.VertexCount() != 6 {
		t.Errorf("expected 6 vertices, got %d", buf.VertexCount())
	}
	if buf.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", buf.TriangleCount())
	}
	if buf.ByteSize() != 72 {
		t.Errorf("expected 72 bytes, got %d", buf.ByteSize())
	}

	v := buf.Vertex(3)
	if v[0] != 0 || v[1] != 0 || v[2] != 1 {
		t.Errorf("expected vertex 3 = (0,0,1), got %v", v)
	}
}

func TestFlatNormals_CounterClockwiseFacesUp(t *testing.T) {
	buf := VertexBuffer{0, 0, 0, 1, 0, 0, 0, 1, 0}

	normals := buf.FlatNormals()
	if len(normals) != len(buf) {
		t.Fatalf("expected %d normal floats, got %d", len(buf), len(normals))
	}

	for v := 0; v < 3; v++ {
		n := normals[v*3 : v*3+3]
		if n[0] != 0 || n[1] != 0 || n[2] != 1 {
			t.Errorf("vertex %d: expected normal (0,0,1), got %v", v, n)
		}
	}
}

func TestFlatNormals_Normalized(t *testing.T) {
	buf := VertexBuffer{0, 0, 0, 0, 0, 4, 0, 3, 0}

	normals := buf.FlatNormals()
	length := math.Sqrt(float64(normals[0]*normals[0] + normals[1]*normals[1] + normals[2]*normals[2]))
	if math.Abs(length-1) > 1e-6 {
		t.Errorf("expected unit normal, got length %f", length)
	}
	if normals[0] > -0.999 {
		t.Errorf("expected normal along -X, got %v", normals[:3])
	}
}

func TestFlatNormals_DegenerateTriangle(t *testing.T) {
	buf := VertexBuffer{1, 1, 1, 1, 1, 1, 2, 2, 2}

	for i, n := range buf.FlatNormals() {
		if n != 0 {
			t.Errorf("float %d: expected zero normal, got %f", i, n)
		}
	}
}

func TestBounds(t *testing.T) {
	buf := VertexBuffer{-1, 2, 0, 3, -4, 5, 0, 0, -6}

	box := buf.Bounds()
	if box.Min[0] != -1 || box.Min[1] != -4 || box.Min[2] != -6 {
		t.Errorf("expected min (-1,-4,-6), got %v", box.Min)
	}
	if box.Max[0] != 3 || box.Max[1] != 2 || box.Max[2] != 5 {
		t.Errorf("expected max (3,2,5), got %v", box.Max)
	}
}

func TestBounds_Empty(t *testing.T) {
	box := VertexBuffer{}.Bounds()
	if box.Min != box.Max {
		t.Errorf("expected zero box, got %v", box)
	}
}
