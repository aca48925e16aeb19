// Package session ties model loading, view state and rendering together for
// a host window. A Session lives on the render thread; only Submit may be
// called from other goroutines.
package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
	"github.com/Faultbox/meshview/pkg/obj"
)

// Status messages shown by hosts.
const (
	MsgLoadFailed   = "Load model file failed!"
	MsgModelInvalid = "Model file is not correct!"
	MsgNoModel      = "No model loaded"
)

// LoadFunc reads a model file into a vertex buffer.
type LoadFunc func(path string) (obj.VertexBuffer, error)

// Session is the host-neutral viewer: one model, one view state, one renderer.
type Session struct {
	state    *viewer.State
	controls *viewer.Controls
	renderer *renderer.Renderer
	load     LoadFunc
	pending  chan string

	path    string
	status  string
	lastErr error
	redraw  bool

	log *zap.Logger
}

// New creates a session drawing through r.
func New(r *renderer.Renderer, opts viewer.Options, controls viewer.ControlsConfig) *Session {
	state := viewer.New(opts)
	return &Session{
		state:    state,
		controls: viewer.NewControls(state, controls),
		renderer: r,
		load:     obj.Load,
		pending:  make(chan string, 1),
		status:   MsgNoModel,
		redraw:   true,
		log:      logger.Named("session"),
	}
}

// SetLoader replaces the model loader.
func (s *Session) SetLoader(fn LoadFunc) {
	s.load = fn
}

// State returns the view state.
func (s *Session) State() *viewer.State {
	return s.state
}

// Controls returns the input adapter bound to the view state.
func (s *Session) Controls() *viewer.Controls {
	return s.controls
}

// Renderer returns the renderer.
func (s *Session) Renderer() *renderer.Renderer {
	return s.renderer
}

// Open loads path and replaces the current model. On failure the previous
// model, if any, stays loaded and the status reports the failure.
func (s *Session) Open(path string) error {
	s.log.Info("opening model", zap.String("path", path))

	buf, err := s.load(path)
	if err == nil {
		err = s.renderer.Upload(buf)
	}
	if err != nil {
		s.lastErr = err
		s.status = StatusMessage(err)
		s.log.Warn("model not loaded",
			zap.String("path", path),
			zap.Error(err),
			zap.Bool("kept_previous", s.HasModel()),
		)
		return fmt.Errorf("opening %s: %w", path, err)
	}

	s.path = path
	s.lastErr = nil
	s.status = fmt.Sprintf("%s: %d triangles", filepath.Base(path), buf.TriangleCount())
	s.redraw = true

	s.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("triangles", buf.TriangleCount()),
	)
	return nil
}

// Unload drops the model and resets the view to its defaults.
func (s *Session) Unload() {
	s.renderer.Clear()
	s.state.Reset()
	s.path = ""
	s.lastErr = nil
	s.status = MsgNoModel
}

// Submit queues a path for opening on the render thread. It is safe to call
// from any goroutine; a newer path replaces one not yet processed.
func (s *Session) Submit(path string) {
	for {
		select {
		case s.pending <- path:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// ProcessPending opens a submitted path, if any. It reports whether a path
// was processed and the result of opening it.
func (s *Session) ProcessPending() (bool, error) {
	select {
	case path := <-s.pending:
		return true, s.Open(path)
	default:
		return false, nil
	}
}

// Frame renders the current model into a width x height viewport.
func (s *Session) Frame(width, height int) error {
	if err := s.renderer.RenderFrame(s.state, width, height); err != nil {
		return err
	}
	s.redraw = false
	return nil
}

// RequestRedraw forces the next NeedsRedraw to report true, e.g. after a
// resize or an expose event.
func (s *Session) RequestRedraw() {
	s.redraw = true
}

// NeedsRedraw reports whether the next frame differs from the last one drawn.
func (s *Session) NeedsRedraw() bool {
	return s.redraw || s.state.Dirty()
}

// HasModel reports whether a model is loaded.
func (s *Session) HasModel() bool {
	return s.renderer.HasMesh()
}

// ModelPath returns the path of the loaded model, or "".
func (s *Session) ModelPath() string {
	if !s.HasModel() {
		return ""
	}
	return s.path
}

// TriangleCount returns the triangle count of the loaded model.
func (s *Session) TriangleCount() int {
	return s.renderer.TriangleCount()
}

// Status returns a one-line description of the last load.
func (s *Session) Status() string {
	return s.status
}

// Err returns the error of the last failed load, or nil.
func (s *Session) Err() error {
	return s.lastErr
}

// StatusMessage maps a load error to the message shown to the user.
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, obj.ErrEmptyModel), errors.Is(err, renderer.ErrInvalidMesh):
		return MsgModelInvalid
	default:
		return MsgLoadFailed
	}
}
