package renderer

import "github.com/go-gl/mathgl/mgl32"

// Attribute binds a vertex shader input to a fixed location before linking.
type Attribute struct {
	Name     string
	Location uint32
}

// Backend is the GPU capability the renderer draws through. Handles are
// opaque to the renderer; zero is never a valid handle.
//
// internal/engine/gpu implements it on OpenGL 4.1 core.
type Backend interface {
	// CompileProgram compiles and links a vertex/fragment pair.
	CompileProgram(vertexSrc, fragmentSrc string, attribs []Attribute) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32

	// UploadBuffer copies data into a new vertex buffer of len(data)*4 bytes.
	UploadBuffer(data []float32) (uint32, error)
	DeleteBuffer(buffer uint32)

	// BindAttribute feeds a float attribute from buffer. stride and offset
	// are in bytes.
	BindAttribute(location, buffer uint32, components, stride, offset int32)

	SetUniformMat4(location int32, m mgl32.Mat4)
	SetUniformMat3(location int32, m mgl32.Mat3)
	SetUniformVec3(location int32, v mgl32.Vec3)

	// BeginFrame sets the viewport, clears colour and depth, and enables
	// depth testing and back-face culling.
	BeginFrame(width, height int32, clearColor [4]float32)

	// Draw issues a triangle list of vertexCount vertices.
	Draw(vertexCount int32)
}
