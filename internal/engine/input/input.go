// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshview/internal/viewer"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventWindowExposed
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventDropFile
)

// Event represents a processed input event.
type Event struct {
	Type    EventType
	Key     sdl.Keycode
	Width   int
	Height  int
	MouseX  int
	MouseY  int
	RelX    int
	RelY    int
	Buttons viewer.Button // held during a motion, or pressed/released
	Path    string        // dropped file
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_EXPOSED:
				i.events = append(i.events, Event{Type: EventWindowExposed})
			}

		case *sdl.KeyboardEvent:
			t := EventKeyDown
			if e.Type == sdl.KEYUP {
				t = EventKeyUp
			}
			i.events = append(i.events, Event{Type: t, Key: e.Keysym.Sym})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:    EventMouseMove,
				MouseX:  int(e.X),
				MouseY:  int(e.Y),
				RelX:    int(e.XRel),
				RelY:    int(e.YRel),
				Buttons: ButtonsFromState(e.State),
			})

		case *sdl.MouseButtonEvent:
			t := EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = EventMouseUp
			}
			i.events = append(i.events, Event{
				Type:    t,
				MouseX:  int(e.X),
				MouseY:  int(e.Y),
				Buttons: buttonFromIndex(e.Button),
			})

		case *sdl.DropEvent:
			if e.Type == sdl.DROPFILE {
				i.events = append(i.events, Event{Type: EventDropFile, Path: e.File})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key sdl.Keycode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// ButtonsFromState maps an SDL mouse button state mask to viewer buttons.
func ButtonsFromState(state uint32) viewer.Button {
	var b viewer.Button
	if state&mask(sdl.BUTTON_LEFT) != 0 {
		b |= viewer.ButtonPrimary
	}
	if state&mask(sdl.BUTTON_RIGHT) != 0 {
		b |= viewer.ButtonSecondary
	}
	return b
}

func mask(button uint32) uint32 {
	return 1 << (button - 1)
}

func buttonFromIndex(button uint8) viewer.Button {
	switch button {
	case sdl.BUTTON_LEFT:
		return viewer.ButtonPrimary
	case sdl.BUTTON_RIGHT:
		return viewer.ButtonSecondary
	default:
		return 0
	}
}
