// Package viewer holds the orientation and camera state of a model view and
// derives the per-frame transform matrices from it.
package viewer

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis selects one of the three coordinate axes.
type Axis int

// Axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Rotation angles are stored in sixteenths of a degree.
const (
	AngleUnitsPerDegree = 16
	FullTurn            = 360 * AngleUnitsPerDegree
)

// Fixed projection parameters.
const (
	FieldOfViewDeg = 45.0
	NearPlane      = 0.01
	FarPlane       = 100.0
)

// Options configures a State.
type Options struct {
	Camera [3]int     // Camera position restored by Reset
	Up     mgl32.Vec3 // Up vector of the view transform
}

// DefaultOptions returns the stock viewer setup: camera five units out on Z,
// looking at the origin with X as the up direction.
func DefaultOptions() Options {
	return Options{
		Camera: [3]int{0, 0, 5},
		Up:     mgl32.Vec3{1, 0, 0},
	}
}

// UpVector maps an axis name ("x", "y" or "z") to a unit up vector.
func UpVector(name string) (mgl32.Vec3, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return mgl32.Vec3{1, 0, 0}, nil
	case "y":
		return mgl32.Vec3{0, 1, 0}, nil
	case "z":
		return mgl32.Vec3{0, 0, 1}, nil
	default:
		return mgl32.Vec3{}, fmt.Errorf("unknown up axis %q", name)
	}
}

// Matrices are the transforms for one frame.
type Matrices struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Model      mgl32.Mat4
	ModelView  mgl32.Mat4 // View * Model
	Normal     mgl32.Mat3 // inverse-transpose of Model's upper 3x3
}

// State is the mutable view state: three rotation angles, a camera position
// and a dirty flag telling the host that the next frame must be redrawn.
// It is not safe for concurrent use; it lives on the render thread.
type State struct {
	opts     Options
	rotation [3]int
	camera   [3]int
	dirty    bool
	onChange func()
}

// New creates a state at its defaults. The first frame is always dirty.
func New(opts Options) *State {
	s := &State{opts: opts}
	s.Reset()
	return s
}

// SetOnChange registers a hook called whenever the state changes.
func (s *State) SetOnChange(fn func()) {
	s.onChange = fn
}

// NormalizeAngle wraps an angle in sixteenths of a degree into [0, FullTurn).
func NormalizeAngle(angle int) int {
	angle %= FullTurn
	if angle < 0 {
		angle += FullTurn
	}
	return angle
}

// SetRotation sets the rotation about axis. Returns false, without marking
// the state dirty, when the normalized angle equals the current one.
func (s *State) SetRotation(axis Axis, angle int) bool {
	angle = NormalizeAngle(angle)
	if s.rotation[axis] == angle {
		return false
	}
	s.rotation[axis] = angle
	s.markDirty()
	return true
}

// Rotation returns the rotation about axis in sixteenths of a degree.
func (s *State) Rotation(axis Axis) int {
	return s.rotation[axis]
}

// SetCameraAxis sets one component of the camera position.
func (s *State) SetCameraAxis(axis Axis, value int) {
	s.camera[axis] = value
	s.markDirty()
}

// CameraAxis returns one component of the camera position.
func (s *State) CameraAxis(axis Axis) int {
	return s.camera[axis]
}

// Camera returns the camera position.
func (s *State) Camera() mgl32.Vec3 {
	return mgl32.Vec3{float32(s.camera[0]), float32(s.camera[1]), float32(s.camera[2])}
}

// Reset restores zero rotation and the default camera position.
func (s *State) Reset() {
	s.rotation = [3]int{}
	s.camera = s.opts.Camera
	s.markDirty()
}

// Dirty reports whether the state changed since the last ClearDirty.
func (s *State) Dirty() bool {
	return s.dirty
}

// ClearDirty acknowledges a redraw.
func (s *State) ClearDirty() {
	s.dirty = false
}

func (s *State) markDirty() {
	s.dirty = true
	if s.onChange != nil {
		s.onChange()
	}
}

// ComputeMatrices derives the frame transforms. aspect is viewport
// width/height; non-positive or non-finite values are treated as 1.
func (s *State) ComputeMatrices(aspect float32) Matrices {
	if a := float64(aspect); a <= 0 || gomath.IsInf(a, 0) || gomath.IsNaN(a) {
		aspect = 1
	}

	model := mgl32.Ident4().
		Mul4(mgl32.HomogRotate3DX(angleRadians(s.rotation[AxisX]))).
		Mul4(mgl32.HomogRotate3DY(angleRadians(s.rotation[AxisY]))).
		Mul4(mgl32.HomogRotate3DZ(angleRadians(s.rotation[AxisZ])))

	view := lookAtOrigin(s.Camera(), s.opts.Up)
	projection := mgl32.Perspective(mgl32.DegToRad(FieldOfViewDeg), aspect, NearPlane, FarPlane)

	return Matrices{
		Projection: projection,
		View:       view,
		Model:      model,
		ModelView:  view.Mul4(model),
		Normal:     model.Mat3().Inv().Transpose(),
	}
}

func angleRadians(sixteenths int) float32 {
	return mgl32.DegToRad(float32(sixteenths) / AngleUnitsPerDegree)
}

// lookAtOrigin builds the view matrix from eye toward the origin. An eye at
// the origin yields identity; an eye on the up axis swaps in the next axis
// as up so the basis stays well defined.
func lookAtOrigin(eye, up mgl32.Vec3) mgl32.Mat4 {
	if eye.Len() == 0 {
		return mgl32.Ident4()
	}

	forward := eye.Mul(-1).Normalize()
	if forward.Cross(up).Len() < 1e-6 {
		for _, alt := range []mgl32.Vec3{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}} {
			if forward.Cross(alt).Len() >= 1e-6 {
				up = alt
				break
			}
		}
	}

	return mgl32.LookAtV(eye, mgl32.Vec3{}, up)
}
