package main

import (
	"fmt"
	"path/filepath"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/picker"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/snapshot"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/session"
	"github.com/Faultbox/meshview/internal/viewer"
)

// idleDelay is how long the loop sleeps when nothing needs drawing.
const idleDelay = 10 // ms

// cameraKeys maps the keyboard camera bindings to an axis and a step.
var cameraKeys = map[sdl.Keycode]struct {
	axis  viewer.Axis
	delta int
}{
	sdl.K_q: {viewer.AxisX, 1},
	sdl.K_a: {viewer.AxisX, -1},
	sdl.K_w: {viewer.AxisY, 1},
	sdl.K_s: {viewer.AxisY, -1},
	sdl.K_e: {viewer.AxisZ, 1},
	sdl.K_d: {viewer.AxisZ, -1},
}

type liteViewer struct {
	cfg      *config.Config
	window   *window.Window
	gpu      *gpu.Backend
	renderer *renderer.Renderer
	session  *session.Session
	input    *input.Input
	snapshot *snapshot.Capture
	running  bool
	log      *zap.Logger
}

func newViewer(cfg *config.Config) (*liteViewer, error) {
	v := &liteViewer{
		cfg:      cfg,
		input:    input.New(),
		snapshot: snapshot.New(cfg.Snapshot.Dir, "meshview", cfg.SnapshotFormat()),
		log:      logger.Named("viewer"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	v.gpu, err = gpu.New()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	v.renderer = renderer.New(v.gpu, cfg.RendererConfig())
	if err := v.renderer.Initialize(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	opts, err := cfg.ViewerOptions()
	if err != nil {
		v.window.Close()
		return nil, err
	}
	v.session = session.New(v.renderer, opts, cfg.ViewerControls())

	return v, nil
}

// Close releases GPU objects and destroys the window.
func (v *liteViewer) Close() {
	v.renderer.Close()
	v.gpu.Close()
	v.window.Close()
}

// Run processes events until the window closes or Escape is pressed. A frame
// is drawn only when the view changed.
func (v *liteViewer) Run() error {
	v.running = true
	v.session.RequestRedraw()

	for v.running {
		if v.input.Update() {
			break
		}

		for _, event := range v.input.Events() {
			if err := v.handle(event); err != nil {
				return err
			}
		}

		if ok, err := v.session.ProcessPending(); ok {
			v.afterOpen(err)
		}

		if !v.session.NeedsRedraw() {
			sdl.Delay(idleDelay)
			continue
		}

		width, height := v.window.DrawableSize()
		if err := v.session.Frame(width, height); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.SwapBuffers()
	}

	return nil
}

func (v *liteViewer) handle(event input.Event) error {
	controls := v.session.Controls()

	switch event.Type {
	case input.EventWindowResize, input.EventWindowExposed:
		v.session.RequestRedraw()

	case input.EventMouseMove:
		if event.Buttons != 0 {
			controls.Drag(event.RelX, event.RelY, event.Buttons)
		}

	case input.EventDropFile:
		v.session.Submit(event.Path)

	case input.EventKeyDown:
		if k, ok := cameraKeys[event.Key]; ok {
			controls.Nudge(k.axis, k.delta)
			return nil
		}

		switch event.Key {
		case sdl.K_ESCAPE:
			v.running = false
		case sdl.K_o:
			picker.OpenModel(v.session, filepath.Dir(v.session.ModelPath()))
		case sdl.K_r:
			v.session.State().Reset()
		case sdl.K_u:
			v.session.Unload()
			v.window.SetTitle(v.cfg.Window.Title)
		case sdl.K_F5:
			return v.recreateContext()
		case sdl.K_F12:
			v.saveSnapshot()
		}
	}

	return nil
}

// recreateContext replaces the GL context, re-creating every GPU object the
// renderer owned.
func (v *liteViewer) recreateContext() error {
	v.renderer.OnContextLost()
	if err := v.window.RecreateContext(); err != nil {
		return err
	}
	if err := v.gpu.Reset(); err != nil {
		return err
	}
	if err := v.renderer.OnContextReady(); err != nil {
		return err
	}
	v.session.RequestRedraw()
	return nil
}

func (v *liteViewer) afterOpen(err error) {
	if err != nil {
		v.log.Warn(v.session.Status())
		return
	}
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.cfg.Window.Title, v.session.Status()))
}

func (v *liteViewer) saveSnapshot() {
	width, height := v.window.DrawableSize()
	if err := v.session.Frame(width, height); err != nil {
		v.log.Error("snapshot render failed", zap.Error(err))
		return
	}
	pixels := v.gpu.ReadPixels(int32(width), int32(height))
	path, err := v.snapshot.SavePixels(pixels, width, height)
	if err != nil {
		v.log.Error("snapshot failed", zap.Error(err))
		return
	}
	v.log.Info("snapshot saved", zap.String("path", path))
}
