// Package renderertest provides a recording renderer.Backend for tests.
package renderertest

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/renderer"
)

// ErrInjected is returned by operations set to fail.
var ErrInjected = errors.New("injected backend failure")

// Binding records one BindAttribute call.
type Binding struct {
	Location   uint32
	Buffer     uint32
	Components int32
	Stride     int32
	Offset     int32
}

// Frame records one BeginFrame call and the draw that followed it, if any.
type Frame struct {
	Width, Height int32
	ClearColor    [4]float32
	Drawn         bool
	VertexCount   int32
}

// Backend records calls and hands out increasing handles. It has no graphics
// context and is safe to use in any test.
type Backend struct {
	FailCompile bool
	FailUpload  bool

	Programs   map[uint32]bool // live programs
	Buffers    map[uint32][]float32
	Attributes []renderer.Attribute
	Bindings   []Binding
	Mat4       map[string]mgl32.Mat4
	Mat3       map[string]mgl32.Mat3
	Vec3       map[string]mgl32.Vec3
	Frames     []Frame
	Compiles   int
	Deleted    []uint32 // deleted buffers, in order

	next     uint32
	current  uint32
	uniforms map[int32]string
}

// New creates an empty recording backend.
func New() *Backend {
	return &Backend{
		Programs: make(map[uint32]bool),
		Buffers:  make(map[uint32][]float32),
		Mat4:     make(map[string]mgl32.Mat4),
		Mat3:     make(map[string]mgl32.Mat3),
		Vec3:     make(map[string]mgl32.Vec3),
		uniforms: make(map[int32]string),
	}
}

func (b *Backend) handle() uint32 {
	b.next++
	return b.next
}

// CompileProgram implements renderer.Backend.
func (b *Backend) CompileProgram(vertexSrc, fragmentSrc string, attribs []renderer.Attribute) (uint32, error) {
	b.Compiles++
	if b.FailCompile {
		return 0, fmt.Errorf("vertex shader: %w", ErrInjected)
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, errors.New("empty shader source")
	}
	b.Attributes = append([]renderer.Attribute(nil), attribs...)
	p := b.handle()
	b.Programs[p] = true
	return p, nil
}

// DeleteProgram implements renderer.Backend.
func (b *Backend) DeleteProgram(program uint32) {
	delete(b.Programs, program)
}

// UseProgram implements renderer.Backend.
func (b *Backend) UseProgram(program uint32) {
	b.current = program
}

// UniformLocation implements renderer.Backend.
func (b *Backend) UniformLocation(program uint32, name string) int32 {
	loc := int32(len(b.uniforms))
	b.uniforms[loc] = name
	return loc
}

// UploadBuffer implements renderer.Backend.
func (b *Backend) UploadBuffer(data []float32) (uint32, error) {
	if b.FailUpload {
		return 0, ErrInjected
	}
	h := b.handle()
	b.Buffers[h] = append([]float32(nil), data...)
	return h, nil
}

// DeleteBuffer implements renderer.Backend.
func (b *Backend) DeleteBuffer(buffer uint32) {
	delete(b.Buffers, buffer)
	b.Deleted = append(b.Deleted, buffer)
}

// BindAttribute implements renderer.Backend.
func (b *Backend) BindAttribute(location, buffer uint32, components, stride, offset int32) {
	b.Bindings = append(b.Bindings, Binding{location, buffer, components, stride, offset})
}

// SetUniformMat4 implements renderer.Backend.
func (b *Backend) SetUniformMat4(location int32, m mgl32.Mat4) {
	b.Mat4[b.uniforms[location]] = m
}

// SetUniformMat3 implements renderer.Backend.
func (b *Backend) SetUniformMat3(location int32, m mgl32.Mat3) {
	b.Mat3[b.uniforms[location]] = m
}

// SetUniformVec3 implements renderer.Backend.
func (b *Backend) SetUniformVec3(location int32, v mgl32.Vec3) {
	b.Vec3[b.uniforms[location]] = v
}

// BeginFrame implements renderer.Backend.
func (b *Backend) BeginFrame(width, height int32, clearColor [4]float32) {
	b.Frames = append(b.Frames, Frame{Width: width, Height: height, ClearColor: clearColor})
}

// Draw implements renderer.Backend.
func (b *Backend) Draw(vertexCount int32) {
	if len(b.Frames) == 0 {
		return
	}
	f := &b.Frames[len(b.Frames)-1]
	f.Drawn = true
	f.VertexCount = vertexCount
}

// LastFrame returns the most recent frame, or a zero Frame.
func (b *Backend) LastFrame() Frame {
	if len(b.Frames) == 0 {
		return Frame{}
	}
	return b.Frames[len(b.Frames)-1]
}

// LiveBuffers returns the number of buffers not yet deleted.
func (b *Backend) LiveBuffers() int {
	return len(b.Buffers)
}

var _ renderer.Backend = (*Backend)(nil)
