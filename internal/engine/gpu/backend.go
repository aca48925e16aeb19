// Package gpu implements the renderer backend on OpenGL 4.1 core.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
)

// ErrEmptyBuffer is returned when uploading a zero-length buffer.
var ErrEmptyBuffer = errors.New("empty vertex buffer")

// Info describes the active OpenGL implementation.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// Backend draws through the OpenGL context current on the calling thread.
type Backend struct {
	info Info
	vao  uint32
}

// New loads OpenGL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	b := &Backend{info: queryInfo()}
	logger.Info("OpenGL initialized",
		zap.String("version", b.info.Version),
		zap.String("renderer", b.info.Renderer),
		zap.String("glsl", b.info.GLSL),
	)

	gl.DepthFunc(gl.LESS)
	return b, nil
}

func queryInfo() Info {
	return Info{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

// Info returns the driver strings captured at startup.
func (b *Backend) Info() Info {
	return b.info
}

// Reset forgets the vertex array after the context was destroyed. Function
// pointers are reloaded for the new context.
func (b *Backend) Reset() error {
	b.vao = 0
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	b.info = queryInfo()
	gl.DepthFunc(gl.LESS)
	return nil
}

// Close deletes the vertex array.
func (b *Backend) Close() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

// CompileProgram implements renderer.Backend.
func (b *Backend) CompileProgram(vertexSrc, fragmentSrc string, attribs []renderer.Attribute) (uint32, error) {
	locations := make(map[string]uint32, len(attribs))
	for _, a := range attribs {
		locations[a.Name] = a.Location
	}

	program, err := shader.CompileProgram(vertexSrc, fragmentSrc, locations)
	if err != nil {
		return 0, err
	}
	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

// DeleteProgram implements renderer.Backend.
func (b *Backend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

// UseProgram implements renderer.Backend.
func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// UniformLocation implements renderer.Backend.
func (b *Backend) UniformLocation(program uint32, name string) int32 {
	loc := shader.GetUniform(program, name)
	if loc < 0 {
		logger.Warn("uniform not active", zap.String("name", name), zap.Uint32("program", program))
	}
	return loc
}

// UploadBuffer implements renderer.Backend.
func (b *Backend) UploadBuffer(data []float32) (uint32, error) {
	if len(data) == 0 {
		return 0, ErrEmptyBuffer
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		return 0, fmt.Errorf("buffer upload of %d bytes: GL error 0x%x", len(data)*4, code)
	}
	return vbo, nil
}

// DeleteBuffer implements renderer.Backend.
func (b *Backend) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

// BindAttribute implements renderer.Backend.
func (b *Backend) BindAttribute(location, buffer uint32, components, stride, offset int32) {
	b.bindVAO()
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, components, gl.FLOAT, false, stride, uintptr(offset))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// bindVAO binds the shared vertex array, creating it on first use.
func (b *Backend) bindVAO() {
	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
	}
	gl.BindVertexArray(b.vao)
}

// SetUniformMat4 implements renderer.Backend.
func (b *Backend) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// SetUniformMat3 implements renderer.Backend.
func (b *Backend) SetUniformMat3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

// SetUniformVec3 implements renderer.Backend.
func (b *Backend) SetUniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

// BeginFrame implements renderer.Backend.
func (b *Backend) BeginFrame(width, height int32, clearColor [4]float32) {
	gl.Viewport(0, 0, width, height)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

// Draw implements renderer.Backend.
func (b *Backend) Draw(vertexCount int32) {
	b.bindVAO()
	gl.DrawArrays(gl.TRIANGLES, 0, vertexCount)
	gl.BindVertexArray(0)
}

// ReadPixels reads the bound framebuffer as RGBA rows, bottom row first.
func (b *Backend) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

var _ renderer.Backend = (*Backend)(nil)
