// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/snapshot"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Render   RenderConfig   `yaml:"render"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the start position and slider range of the camera.
type CameraConfig struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Z      int    `yaml:"z"`
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	UpAxis string `yaml:"up_axis"` // x, y or z
}

// ControlsConfig holds pointer settings.
type ControlsConfig struct {
	DragStep int `yaml:"drag_step"` // 1/16 degree per pixel
}

// RenderConfig holds lighting and clear settings.
type RenderConfig struct {
	LightPosition [3]float32 `yaml:"light_position,flow"`
	ClearColor    [4]float32 `yaml:"clear_color,flow"`
}

// SnapshotConfig holds screenshot settings.
type SnapshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "meshview",
			Width:  1280,
			Height: 800,
			VSync:  true,
		},
		Camera: CameraConfig{
			Z:      5,
			Min:    -50,
			Max:    50,
			UpAxis: "x",
		},
		Controls: ControlsConfig{
			DragStep: 1,
		},
		Render: RenderConfig{
			LightPosition: [3]float32{10, 10, 10},
		},
		Snapshot: SnapshotConfig{
			Dir:    "./snapshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Min >= c.Camera.Max {
		return fmt.Errorf("%w: camera range [%d, %d]", ErrInvalid, c.Camera.Min, c.Camera.Max)
	}
	if _, err := viewer.UpVector(c.Camera.UpAxis); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Controls.DragStep == 0 {
		return fmt.Errorf("%w: drag_step must not be 0", ErrInvalid)
	}
	if _, err := snapshot.ParseFormat(c.Snapshot.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ViewerOptions returns the view state setup.
func (c *Config) ViewerOptions() (viewer.Options, error) {
	up, err := viewer.UpVector(c.Camera.UpAxis)
	if err != nil {
		return viewer.Options{}, err
	}
	return viewer.Options{
		Camera: [3]int{c.Camera.X, c.Camera.Y, c.Camera.Z},
		Up:     up,
	}, nil
}

// ViewerControls returns the input adapter settings.
func (c *Config) ViewerControls() viewer.ControlsConfig {
	return viewer.ControlsConfig{
		DragStep:  c.Controls.DragStep,
		CameraMin: c.Camera.Min,
		CameraMax: c.Camera.Max,
	}
}

// RendererConfig returns the renderer settings.
func (c *Config) RendererConfig() renderer.Config {
	return renderer.Config{
		LightPosition: mgl32.Vec3(c.Render.LightPosition),
		ClearColor:    c.Render.ClearColor,
	}
}

// SnapshotFormat returns the parsed snapshot format.
func (c *Config) SnapshotFormat() snapshot.Format {
	f, err := snapshot.ParseFormat(c.Snapshot.Format)
	if err != nil {
		return snapshot.FormatPNG
	}
	return f
}
