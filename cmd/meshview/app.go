package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/picker"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/snapshot"
	"github.com/Faultbox/meshview/internal/engine/ui"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/session"
	"github.com/Faultbox/meshview/internal/viewer"
)

// Layout dimensions.
const (
	leftPanelWidth  = float32(300)
	statusBarHeight = float32(30)
	noticeDuration  = 2 * time.Second
)

// App is the ImGui viewer.
type App struct {
	cfg      *config.Config
	ui       *ui.Backend
	gpu      *gpu.Backend
	target   *gpu.Target
	session  *session.Session
	drag     *ui.DragTracker
	snapshot *snapshot.Capture

	pathText      string   // path field contents
	camera        [3]int32 // slider values
	shotRequested bool
	notice        string
	noticeAt      time.Time

	log *zap.Logger
}

// NewApp creates the window, the GL backend and a session.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:      cfg,
		snapshot: snapshot.New(cfg.Snapshot.Dir, "meshview", cfg.SnapshotFormat()),
		log:      logger.Named("app"),
	}

	var err error
	app.ui, err = ui.NewBackend(cfg.Window.Title, int32(cfg.Window.Width), int32(cfg.Window.Height), [4]float32{0.1, 0.1, 0.12, 1})
	if err != nil {
		return nil, err
	}

	app.gpu, err = gpu.New()
	if err != nil {
		return nil, err
	}

	r := renderer.New(app.gpu, cfg.RendererConfig())
	if err := r.Initialize(); err != nil {
		return nil, err
	}

	opts, err := cfg.ViewerOptions()
	if err != nil {
		return nil, err
	}
	app.session = session.New(r, opts, cfg.ViewerControls())
	app.drag = ui.NewDragTracker(app.session.Controls())
	app.syncSliders()

	app.target, err = gpu.NewTarget(int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Close releases GPU resources.
func (app *App) Close() {
	if app.session != nil {
		app.session.Renderer().Close()
	}
	if app.target != nil {
		app.target.Destroy()
	}
	if app.gpu != nil {
		app.gpu.Close()
	}
}

// Run starts the main loop.
func (app *App) Run() {
	app.ui.Run(app.render)
}

// render is called each frame to draw the UI.
func (app *App) render() {
	if ok, err := app.session.ProcessPending(); ok {
		app.afterOpen(err)
	}

	if ui.IsKeyPressed(imgui.KeyF12) {
		app.shotRequested = true
	}

	x, y, width, height := ui.Viewport()
	contentHeight := height - statusBarHeight
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Model", nil, flags) {
		app.renderControls()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x+leftPanelWidth, y))
	imgui.SetNextWindowSize(imgui.NewVec2(width-leftPanelWidth, contentHeight))
	if imgui.BeginV("View", nil, flags|imgui.WindowFlagsNoScrollbar) {
		app.renderViewport()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x, y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(width, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		app.renderStatusBar()
	}
	imgui.End()
}

func (app *App) renderControls() {
	if imgui.Button("Open model...") {
		picker.OpenModel(app.session, filepath.Dir(app.session.ModelPath()))
	}
	imgui.SameLine()
	if imgui.Button("Unload") {
		app.session.Unload()
		app.syncSliders()
	}

	if imgui.InputTextWithHint("##path", "path/to/model.obj", &app.pathText, imgui.InputTextFlagsEnterReturnsTrue, nil) {
		app.afterOpen(app.session.Open(app.pathText))
	}

	if msg := app.session.Status(); app.session.Err() != nil {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), msg)
	} else {
		imgui.TextDisabled(msg)
	}

	imgui.Separator()
	imgui.Text("Camera")

	ctl := app.session.Controls().Config()
	for i, axis := range []viewer.Axis{viewer.AxisX, viewer.AxisY, viewer.AxisZ} {
		label := fmt.Sprintf("%s##camera", axis)
		if imgui.SliderIntV(label, &app.camera[i], int32(ctl.CameraMin), int32(ctl.CameraMax), "%d", imgui.SliderFlagsNone) {
			app.session.Controls().Slider(axis, int(app.camera[i]))
		}
	}

	imgui.Separator()
	imgui.Text("Rotation")
	state := app.session.State()
	for _, axis := range []viewer.Axis{viewer.AxisX, viewer.AxisY, viewer.AxisZ} {
		deg := float32(state.Rotation(axis)) / viewer.AngleUnitsPerDegree
		imgui.Text(fmt.Sprintf("  %s: %6.2f deg", axis, deg))
	}

	if imgui.Button("Reset view") {
		state.Reset()
		app.syncSliders()
	}

	imgui.Separator()
	imgui.TextDisabled("Left drag: rotate X/Y")
	imgui.TextDisabled("Right drag: rotate X/Z")
	imgui.TextDisabled("F12: snapshot")
}

func (app *App) renderViewport() {
	avail := imgui.ContentRegionAvail()
	w, h := int32(avail.X), int32(avail.Y)
	if w < 1 || h < 1 {
		return
	}

	if tw, th := app.target.Size(); tw != w || th != h {
		app.target.Resize(w, h)
		app.session.RequestRedraw()
	}

	if app.session.NeedsRedraw() {
		restore := app.target.Bind()
		if err := app.session.Frame(int(w), int(h)); err != nil {
			app.log.Error("frame failed", zap.Error(err))
		}
		restore()
	}

	if app.shotRequested {
		app.shotRequested = false
		app.saveSnapshot()
	}

	ui.Texture(app.target.Texture(), avail.X, avail.Y)
	app.drag.Update()
}

func (app *App) renderStatusBar() {
	if time.Since(app.noticeAt) < noticeDuration {
		imgui.Text(app.notice)
		return
	}
	if app.session.HasModel() {
		imgui.Text(fmt.Sprintf("%s | %d triangles", app.session.ModelPath(), app.session.TriangleCount()))
	} else {
		imgui.Text(session.MsgNoModel)
	}
}

func (app *App) afterOpen(err error) {
	if err == nil {
		app.pathText = app.session.ModelPath()
		app.cfg.Window.Title = fmt.Sprintf("meshview - %s", filepath.Base(app.pathText))
		app.ui.SetWindowTitle(app.cfg.Window.Title)
	}
	app.setNotice(app.session.Status())
}

func (app *App) saveSnapshot() {
	w, h := app.target.Size()
	path, err := app.snapshot.SavePixels(app.target.ReadPixels(), int(w), int(h))
	if err != nil {
		app.log.Error("snapshot failed", zap.Error(err))
		app.setNotice("Snapshot failed: " + err.Error())
		return
	}
	app.log.Info("snapshot saved", zap.String("path", path))
	app.setNotice("Saved " + path)
}

func (app *App) setNotice(msg string) {
	app.notice = msg
	app.noticeAt = time.Now()
}

// syncSliders copies the camera position into the slider values.
func (app *App) syncSliders() {
	state := app.session.State()
	for i, axis := range []viewer.Axis{viewer.AxisX, viewer.AxisY, viewer.AxisZ} {
		app.camera[i] = int32(state.CameraAxis(axis))
	}
}
