package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/snapshot"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 800 {
		t.Errorf("expected height 800, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Camera.X != 0 || cfg.Camera.Y != 0 || cfg.Camera.Z != 5 {
		t.Errorf("expected camera (0,0,5), got (%d,%d,%d)", cfg.Camera.X, cfg.Camera.Y, cfg.Camera.Z)
	}
	if cfg.Camera.UpAxis != "x" {
		t.Errorf("expected up axis x, got %s", cfg.Camera.UpAxis)
	}
	if cfg.Render.LightPosition != [3]float32{10, 10, 10} {
		t.Errorf("expected light (10,10,10), got %v", cfg.Render.LightPosition)
	}
	if cfg.Snapshot.Format != "png" {
		t.Errorf("expected png snapshots, got %s", cfg.Snapshot.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshview.yaml")

	yamlContent := `
window:
  title: "bunny"
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

camera:
  x: 1
  y: -2
  z: 12
  min: -20
  max: 20
  up_axis: "y"

controls:
  drag_step: 4

render:
  light_position: [0, 5, 0]
  clear_color: [0.1, 0.1, 0.15, 1]

snapshot:
  dir: "shots"
  format: "bmp"

logging:
  level: "debug"
  log_file: "meshview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "bunny" || cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	if !cfg.Window.Fullscreen || cfg.Window.VSync {
		t.Errorf("unexpected window flags %+v", cfg.Window)
	}
	if cfg.Camera != (CameraConfig{X: 1, Y: -2, Z: 12, Min: -20, Max: 20, UpAxis: "y"}) {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Controls.DragStep != 4 {
		t.Errorf("expected drag step 4, got %d", cfg.Controls.DragStep)
	}
	if cfg.Render.LightPosition != [3]float32{0, 5, 0} {
		t.Errorf("unexpected light %v", cfg.Render.LightPosition)
	}
	if cfg.Render.ClearColor[3] != 1 {
		t.Errorf("unexpected clear color %v", cfg.Render.ClearColor)
	}
	if cfg.SnapshotFormat() != snapshot.FormatBMP {
		t.Errorf("expected bmp, got %s", cfg.SnapshotFormat())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  z: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Camera.Z != 9 {
		t.Errorf("expected z 9, got %d", cfg.Camera.Z)
	}
	if cfg.Camera.Max != 50 || cfg.Window.Width != 1280 {
		t.Error("expected untouched keys to keep defaults")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("expected empty file to be accepted, got %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  zoom: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/meshview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"empty camera range", func(c *Config) { c.Camera.Min, c.Camera.Max = 5, 5 }},
		{"unknown up axis", func(c *Config) { c.Camera.UpAxis = "w" }},
		{"zero drag step", func(c *Config) { c.Controls.DragStep = 0 }},
		{"unknown snapshot format", func(c *Config) { c.Snapshot.Format = "gif" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestViewerOptions(t *testing.T) {
	cfg := Default()
	cfg.Camera.X, cfg.Camera.Y, cfg.Camera.Z = 1, 2, 3
	cfg.Camera.UpAxis = "z"

	opts, err := cfg.ViewerOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Camera != [3]int{1, 2, 3} {
		t.Errorf("unexpected camera %v", opts.Camera)
	}
	if opts.Up != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("unexpected up %v", opts.Up)
	}

	ctl := cfg.ViewerControls()
	if ctl.CameraMin != -50 || ctl.CameraMax != 50 || ctl.DragStep != 1 {
		t.Errorf("unexpected controls %+v", ctl)
	}

	rc := cfg.RendererConfig()
	if rc.LightPosition != (mgl32.Vec3{10, 10, 10}) {
		t.Errorf("unexpected light %v", rc.LightPosition)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestModelPathFlag(t *testing.T) {
	*flagModel = "bunny.obj"
	defer func() { *flagModel = "" }()

	if ModelPath() != "bunny.obj" {
		t.Errorf("expected bunny.obj, got %s", ModelPath())
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshview.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("snapshot:\n  format: tiff\n"), 0644); err != nil {
		t.Fatal(err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meshview.yaml")

	cfg := Default()
	cfg.Camera.Z = 17
	cfg.Render.ClearColor = [4]float32{0.5, 0.5, 0.5, 1}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Camera.Z != 17 || loaded.Render.ClearColor != cfg.Render.ClearColor {
		t.Errorf("saved values not restored: %+v", loaded)
	}
}
