package obj

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeOBJ writes content to a temporary file with the given name.
func writeOBJ(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test model: %v", err)
	}
	return path
}

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestLoad_SingleTriangle(t *testing.T) {
	path := writeOBJ(t, "tri.obj", triangleOBJ)

	buf, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	expected := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	if len(buf) != len(expected) {
		t.Fatalf("expected %d floats, got %d", len(expected), len(buf))
	}
	for i := range expected {
		if buf[i] != expected[i] {
			t.Errorf("float %d: expected %f, got %f", i, expected[i], buf[i])
		}
	}
}

func TestLoad_RoundTripKeepsFileOrder(t *testing.T) {
	path := writeOBJ(t, "order.obj", `v 1.5 -2 3.25
v 4 5 6
v -7 8.5 9
f 3 1 2
`)

	buf, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	expected := VertexBuffer{-7, 8.5, 9, 1.5, -2, 3.25, 4, 5, 6}
	for i := range expected {
		if buf[i] != expected[i] {
			t.Errorf("float %d: expected %f, got %f", i, expected[i], buf[i])
		}
	}
}

func TestLoad_LengthMultipleOfNine(t *testing.T) {
	models := map[string]string{
		"one.obj": triangleOBJ,
		"quad.obj": `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`,
		"ngon.obj": `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v -1 0 0
f 1 2 3 4 5
f 5 4 3
`,
	}

	for name, content := range models {
		t.Run(name, func(t *testing.T) {
			buf, err := Load(writeOBJ(t, name, content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(buf)%9 != 0 {
				t.Errorf("expected length multiple of 9, got %d", len(buf))
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	// The file does not exist: the extension check must come first.
	_, err := Load(filepath.Join(t.TempDir(), "model.txt"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if errors.Is(err, ErrIO) {
		t.Error("file should not have been opened")
	}
}

func TestLoad_ExtensionCaseInsensitive(t *testing.T) {
	for _, name := range []string{"upper.OBJ", "mixed.Obj"} {
		if _, err := Load(writeOBJ(t, name, triangleOBJ)); err != nil {
			t.Errorf("%s: expected success, got %v", name, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_IndexOutOfRange(t *testing.T) {
	path := writeOBJ(t, "bad.obj", `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 4
`)

	buf, err := Load(path)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if buf != nil {
		t.Errorf("expected no buffer, got %d floats", len(buf))
	}
}

func TestLoad_EmptyModel(t *testing.T) {
	tests := map[string]string{
		"empty.obj":    "",
		"verts.obj":    "v 0 0 0\nv 1 1 1\n",
		"comments.obj": "# only a comment\n\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeOBJ(t, name, content))
			if !errors.Is(err, ErrEmptyModel) {
				t.Errorf("expected ErrEmptyModel, got %v", err)
			}
		})
	}
}

func TestParse_RecordTypes(t *testing.T) {
	src := `# exported by hand
mtllib scene.mtl
o Triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vn 0 0 1
g body
usemtl red
s off
f 1 2 3
`
	mesh, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if mesh.PositionCount() != 3 {
		t.Errorf("expected 3 positions, got %d", mesh.PositionCount())
	}
	if len(mesh.TexCoords) != 4 {
		t.Errorf("expected 4 texcoord floats, got %d", len(mesh.TexCoords))
	}
	if len(mesh.Normals) != 3 {
		t.Errorf("expected 3 normal floats, got %d", len(mesh.Normals))
	}
	if mesh.FaceCount() != 1 {
		t.Errorf("expected 1 face, got %d", mesh.FaceCount())
	}
}

func TestParse_FaceTakesFirstThreeCorners(t *testing.T) {
	mesh, err := Parse(strings.NewReader("f 4 5 6 7 8\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []int{4, 5, 6}
	if len(mesh.Faces) != len(expected) {
		t.Fatalf("expected %d indices, got %d", len(expected), len(mesh.Faces))
	}
	for i := range expected {
		if mesh.Faces[i] != expected[i] {
			t.Errorf("index %d: expected %d, got %d", i, expected[i], mesh.Faces[i])
		}
	}
}

func TestParse_FaceWithSlashes(t *testing.T) {
	mesh, err := Parse(strings.NewReader("f 1/1/1 2//2 3/3\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []int{1, 2, 3}
	for i := range expected {
		if mesh.Faces[i] != expected[i] {
			t.Errorf("index %d: expected %d, got %d", i, expected[i], mesh.Faces[i])
		}
	}
}

func TestParse_MalformedFace(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"too few corners", "v 0 0 0\nf 1 2\n"},
		{"no corners", "f\n"},
		{"not a number", "f 1 two 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, ErrMalformedFace) {
				t.Errorf("expected ErrMalformedFace, got %v", err)
			}
		})
	}
}

func TestParse_MalformedVertexReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("v 0 0 0\nv 1 x 0\n"))
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got %q", err.Error())
	}
}

func TestParse_ExtraWhitespace(t *testing.T) {
	mesh, err := Parse(strings.NewReader("  v   1\t2   3  \r\n\n\tf 1  1 1\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if mesh.PositionCount() != 1 {
		t.Errorf("expected 1 position, got %d", mesh.PositionCount())
	}
	if mesh.FaceCount() != 1 {
		t.Errorf("expected 1 face, got %d", mesh.FaceCount())
	}
}

func TestFlatten_RejectsZeroAndNegativeIndices(t *testing.T) {
	for _, index := range []int{0, -1, math.MinInt} {
		mesh := &RawMesh{
			Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Faces:     []int{1, 2, index},
		}
		if _, err := mesh.Flatten(); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
}

func TestLoad_HugeIndexIsOutOfRange(t *testing.T) {
	// 4e18 * 3 overflows int; the index must be rejected, not wrapped.
	path := writeOBJ(t, "huge.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 4000000000000000000 1 2\n")

	buf, err := Load(path)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if buf != nil {
		t.Errorf("expected nil buffer, got %d floats", len(buf))
	}

	mesh := &RawMesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Faces:     []int{math.MaxInt, 1, 2},
	}
	if _, err := mesh.Flatten(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange for MaxInt, got %v", err)
	}
}

func TestFlatten_PartialTrailingPosition(t *testing.T) {
	// A v record with only two values leaves an incomplete position that
	// cannot be referenced.
	mesh := &RawMesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1},
		Faces:     []int{1, 2, 3},
	}
	if _, err := mesh.Flatten(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestLoad_Repeatable(t *testing.T) {
	path := writeOBJ(t, "again.obj", triangleOBJ)

	first, err := Load(path)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("float %d differs: %f vs %f", i, first[i], second[i])
		}
	}
}
