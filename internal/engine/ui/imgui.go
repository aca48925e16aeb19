// Package ui provides ImGui-based user interface components.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/meshview/internal/viewer"
)

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the ImGui window and its OpenGL context.
func NewBackend(title string, width, height int32, bg [4]float32) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(bg[0], bg[1], bg[2], bg[3]))
	b.backend.CreateWindow(title, int(width), int(height))

	return b, nil
}

// Run starts the main render loop. It returns when the window is closed.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// Texture shows an OpenGL texture rendered bottom-up, flipping V.
func Texture(textureID uint32, width, height float32) {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(width, height),
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 0),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// DragTracker feeds mouse drags over the last ImGui item into viewer controls.
type DragTracker struct {
	controls *viewer.Controls
	active   bool
}

// NewDragTracker creates a tracker driving controls.
func NewDragTracker(controls *viewer.Controls) *DragTracker {
	return &DragTracker{controls: controls}
}

// Update must be called right after the item that receives drags. A drag
// starts only over the item and continues until every button is released.
func (d *DragTracker) Update() {
	buttons := DragButtons()
	pos := imgui.MousePos()
	x, y := int(pos.X), int(pos.Y)

	switch {
	case buttons == 0:
		if d.active {
			d.controls.Release()
			d.active = false
		}
	case !d.active:
		if imgui.IsItemHovered() {
			d.controls.Press(x, y)
			d.active = true
		}
	default:
		d.controls.Move(x, y, buttons)
	}
}

// DragButtons returns the mouse buttons currently held.
func DragButtons() viewer.Button {
	var b viewer.Button
	if imgui.IsMouseDown(imgui.MouseButtonLeft) {
		b |= viewer.ButtonPrimary
	}
	if imgui.IsMouseDown(imgui.MouseButtonRight) {
		b |= viewer.ButtonSecondary
	}
	return b
}
