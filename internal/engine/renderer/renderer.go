// Package renderer draws a flat-shaded triangle mesh under a single point light.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/renderer/shaders"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
	"github.com/Faultbox/meshview/pkg/obj"
)

// Renderer errors.
var (
	ErrShaderCompile  = errors.New("shader program failed to build")
	ErrNotInitialized = errors.New("renderer not initialized")
	ErrInvalidMesh    = errors.New("vertex buffer is not a whole number of triangles")
)

// Vertex attribute locations.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
)

// Uniform names used by the mesh shaders.
const (
	uniformProjection = "uProjection"
	uniformModelView  = "uModelView"
	uniformNormal     = "uNormalMatrix"
	uniformLight      = "uLightPos"
)

// Config holds renderer configuration.
type Config struct {
	LightPosition mgl32.Vec3 // Point light, fixed in model space
	ClearColor    [4]float32 // RGBA
}

// DefaultConfig returns a light at (10,10,10) and a transparent black clear.
func DefaultConfig() Config {
	return Config{
		LightPosition: mgl32.Vec3{10, 10, 10},
	}
}

type uniforms struct {
	projection int32
	modelView  int32
	normal     int32
	light      int32
}

// Renderer owns the shader program and the GPU copy of one mesh.
// All methods must be called on the thread that owns the graphics context.
type Renderer struct {
	backend Backend
	config  Config

	program  uint32
	uniforms uniforms
	ready    bool

	// Host copy of the mesh, kept so it can be re-uploaded after a context loss.
	mesh      obj.VertexBuffer
	positions uint32
	normals   uint32
	uploaded  bool

	log *zap.Logger
}

// New creates a renderer drawing through backend.
func New(backend Backend, cfg Config) *Renderer {
	return &Renderer{
		backend: backend,
		config:  cfg,
		log:     logger.Named("renderer"),
	}
}

// Initialize builds the shader program and sets the light position. It is a
// no-op when already initialized. A mesh handed to Upload before this call is
// uploaded here.
func (r *Renderer) Initialize() error {
	if r.ready {
		return nil
	}

	program, err := r.backend.CompileProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader, []Attribute{
		{Name: "aPosition", Location: AttribPosition},
		{Name: "aNormal", Location: AttribNormal},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	r.program = program
	r.uniforms = uniforms{
		projection: r.backend.UniformLocation(program, uniformProjection),
		modelView:  r.backend.UniformLocation(program, uniformModelView),
		normal:     r.backend.UniformLocation(program, uniformNormal),
		light:      r.backend.UniformLocation(program, uniformLight),
	}

	r.backend.UseProgram(program)
	r.backend.SetUniformVec3(r.uniforms.light, r.config.LightPosition)
	r.ready = true

	r.log.Debug("mesh program ready", zap.Uint32("program", program))

	if r.mesh != nil {
		return r.upload()
	}
	return nil
}

// Ready reports whether the shader program is built.
func (r *Renderer) Ready() bool {
	return r.ready
}

// Upload replaces the current mesh. The new buffers are created before the
// previous ones are released, so a failed upload leaves the previous mesh in
// place. Before Initialize the mesh is only stored.
func (r *Renderer) Upload(buf obj.VertexBuffer) error {
	if len(buf) == 0 || len(buf)%obj.TriangleStride != 0 {
		return fmt.Errorf("%w: %d floats", ErrInvalidMesh, len(buf))
	}

	if !r.ready {
		r.mesh = buf
		return nil
	}

	positions, normals, err := r.createBuffers(buf)
	if err != nil {
		return err
	}

	r.release()
	r.mesh = buf
	r.bind(positions, normals)
	return nil
}

// upload sends the stored mesh to the GPU.
func (r *Renderer) upload() error {
	positions, normals, err := r.createBuffers(r.mesh)
	if err != nil {
		return err
	}
	r.bind(positions, normals)
	return nil
}

// createBuffers uploads the positions and flat normals of buf. On failure no
// buffer is left behind.
func (r *Renderer) createBuffers(buf obj.VertexBuffer) (positions, normals uint32, err error) {
	positions, err = r.backend.UploadBuffer(buf)
	if err != nil {
		return 0, 0, fmt.Errorf("uploading positions: %w", err)
	}

	normals, err = r.backend.UploadBuffer(buf.FlatNormals())
	if err != nil {
		r.backend.DeleteBuffer(positions)
		return 0, 0, fmt.Errorf("uploading normals: %w", err)
	}
	return positions, normals, nil
}

// bind attaches the buffers to the vertex attributes and makes them current.
func (r *Renderer) bind(positions, normals uint32) {
	const stride = obj.VertexStride * 4
	r.backend.BindAttribute(AttribPosition, positions, obj.VertexStride, stride, 0)
	r.backend.BindAttribute(AttribNormal, normals, obj.VertexStride, stride, 0)

	r.positions = positions
	r.normals = normals
	r.uploaded = true

	r.log.Debug("mesh uploaded",
		zap.Int("triangles", r.mesh.TriangleCount()),
		zap.Int("bytes", r.mesh.ByteSize()),
	)
}

// release frees the GPU buffers of the current mesh.
func (r *Renderer) release() {
	if !r.uploaded {
		return
	}
	r.backend.DeleteBuffer(r.positions)
	r.backend.DeleteBuffer(r.normals)
	r.positions, r.normals = 0, 0
	r.uploaded = false
}

// RenderFrame clears the viewport and draws the mesh with the transforms of
// state. The state's dirty flag is cleared afterwards. With no mesh the frame
// is only cleared.
func (r *Renderer) RenderFrame(state *viewer.State, width, height int) error {
	if !r.ready {
		return ErrNotInitialized
	}

	r.backend.BeginFrame(int32(width), int32(height), r.config.ClearColor)
	defer state.ClearDirty()

	if !r.uploaded {
		return nil
	}

	m := state.ComputeMatrices(float32(width) / float32(height))

	r.backend.UseProgram(r.program)
	r.backend.SetUniformMat4(r.uniforms.projection, m.Projection)
	r.backend.SetUniformMat4(r.uniforms.modelView, m.ModelView)
	r.backend.SetUniformMat3(r.uniforms.normal, m.Normal)
	r.backend.Draw(int32(r.mesh.VertexCount()))

	return nil
}

// Clear drops the mesh. The next frame only clears the viewport.
func (r *Renderer) Clear() {
	r.release()
	r.mesh = nil
}

// OnContextLost forgets every GPU handle without calling the backend, since
// the objects died with the context. The host copy of the mesh is kept.
func (r *Renderer) OnContextLost() {
	r.program = 0
	r.uniforms = uniforms{}
	r.ready = false
	r.positions, r.normals = 0, 0
	r.uploaded = false

	r.log.Warn("graphics context lost")
}

// OnContextReady rebuilds the program and re-uploads the mesh.
func (r *Renderer) OnContextReady() error {
	r.log.Info("graphics context ready, restoring mesh", zap.Bool("has_mesh", r.mesh != nil))
	return r.Initialize()
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	r.Clear()
	if r.program != 0 {
		r.backend.DeleteProgram(r.program)
		r.program = 0
	}
	r.ready = false
}

// HasMesh reports whether a mesh is loaded.
func (r *Renderer) HasMesh() bool {
	return r.mesh != nil
}

// TriangleCount returns the triangle count of the loaded mesh.
func (r *Renderer) TriangleCount() int {
	return r.mesh.TriangleCount()
}

// Mesh returns the host copy of the loaded mesh.
func (r *Renderer) Mesh() obj.VertexBuffer {
	return r.mesh
}
