package viewer

// Button is a bitmask of pointer buttons held during a drag.
type Button uint8

// Pointer buttons.
const (
	ButtonPrimary Button = 1 << iota
	ButtonSecondary
)

// ControlsConfig tunes the input adapter.
type ControlsConfig struct {
	DragStep  int // Rotation units (1/16 degree) per pixel of drag
	CameraMin int // Lower bound for camera components
	CameraMax int // Upper bound for camera components
}

// DefaultControlsConfig returns one unit per pixel and a +/-50 camera range.
func DefaultControlsConfig() ControlsConfig {
	return ControlsConfig{
		DragStep:  1,
		CameraMin: -50,
		CameraMax: 50,
	}
}

// Controls translates raw pointer and slider input into State updates.
// Primary-button drags rotate about X and Y, secondary-button drags about
// X and Z. Vertical motion always drives X.
type Controls struct {
	state  *State
	cfg    ControlsConfig
	lastX  int
	lastY  int
	active bool
}

// NewControls creates an input adapter for state.
func NewControls(state *State, cfg ControlsConfig) *Controls {
	if cfg.DragStep == 0 {
		cfg.DragStep = 1
	}
	return &Controls{state: state, cfg: cfg}
}

// Config returns the adapter settings.
func (c *Controls) Config() ControlsConfig {
	return c.cfg
}

// Press records the pointer position at the start of a drag.
func (c *Controls) Press(x, y int) {
	c.lastX, c.lastY = x, y
	c.active = true
}

// Release ends the current drag.
func (c *Controls) Release() {
	c.active = false
}

// Move handles an absolute pointer position. Without a preceding Press the
// first move only records the position.
func (c *Controls) Move(x, y int, buttons Button) {
	if !c.active {
		c.Press(x, y)
		return
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	c.Drag(dx, dy, buttons)
}

// Drag applies a relative pointer motion.
func (c *Controls) Drag(dx, dy int, buttons Button) {
	dx *= c.cfg.DragStep
	dy *= c.cfg.DragStep

	switch {
	case buttons&ButtonPrimary != 0:
		c.state.SetRotation(AxisX, c.state.Rotation(AxisX)+dy)
		c.state.SetRotation(AxisY, c.state.Rotation(AxisY)+dx)
	case buttons&ButtonSecondary != 0:
		c.state.SetRotation(AxisX, c.state.Rotation(AxisX)+dy)
		c.state.SetRotation(AxisZ, c.state.Rotation(AxisZ)+dx)
	}
}

// Slider sets a camera component from a range control, clamped to the
// configured range.
func (c *Controls) Slider(axis Axis, value int) {
	c.state.SetCameraAxis(axis, c.clamp(value))
}

// Nudge moves a camera component by delta, for keyboard stepping.
func (c *Controls) Nudge(axis Axis, delta int) {
	c.Slider(axis, c.state.CameraAxis(axis)+delta)
}

func (c *Controls) clamp(v int) int {
	if c.cfg.CameraMin >= c.cfg.CameraMax {
		return v
	}
	if v < c.cfg.CameraMin {
		return c.cfg.CameraMin
	}
	if v > c.cfg.CameraMax {
		return c.cfg.CameraMax
	}
	return v
}
