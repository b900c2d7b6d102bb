package config

import (
	"errors"
	"flag"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"chosenoffset.com/penumbra/internal/render/lighting"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 640 || cfg.Window.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Post.GlowEnabled || cfg.Post.GlowAmount != 0.2 {
		t.Errorf("expected glow 0.2 enabled, got %+v", cfg.Post)
	}
	if !cfg.Post.BlurEnabled || cfg.Post.BlurRadius != 3 {
		t.Errorf("expected blur 3 enabled, got %+v", cfg.Post)
	}
	if cfg.Debug.OutlineShadows || cfg.Debug.OutlineLights {
		t.Error("expected outlines off by default")
	}
	if len(cfg.Scene.Lights) != 2 {
		t.Fatalf("expected 2 lights, got %d", len(cfg.Scene.Lights))
	}
	if l := cfg.Scene.Lights[0]; !l.FollowCursor || l.Radius != 300 || l.Shape != lighting.DefaultShape {
		t.Errorf("unexpected cursor light %+v", l)
	}
	if cfg.Scene.RandomOccluders != 5 || len(cfg.Scene.Occluders) != 2 {
		t.Errorf("unexpected occluders: %d random, %d explicit", cfg.Scene.RandomOccluders, len(cfg.Scene.Occluders))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 800
  height: 600

post:
  glow: false
  blur_radius: 5

scene:
  silhouette: exact
  random_occluders: 0
  occluders:
    - [{x: 10, y: 10}, {x: 30, y: 10}, {x: 20, y: 30}]
  lights:
    - id: lamp
      x: 400
      y: 300
      radius: 150
      color: "#ff0000"
      shape:
        samples_per_ring: 4
        ring_projection: 2
        layers: 3
        layer_angle: 45

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Penumbra" {
		t.Errorf("unset values should keep defaults, got title %q", cfg.Window.Title)
	}
	if cfg.Post.GlowEnabled || !cfg.Post.BlurEnabled || cfg.Post.BlurRadius != 5 {
		t.Errorf("unexpected post config %+v", cfg.Post)
	}
	if cfg.Scene.Silhouette != "exact" {
		t.Errorf("expected exact silhouette, got %q", cfg.Scene.Silhouette)
	}
	if len(cfg.Scene.Occluders) != 1 || len(cfg.Scene.Occluders[0]) != 3 {
		t.Fatalf("expected the file's occluder list to replace the default, got %v", cfg.Scene.Occluders)
	}
	if cfg.Scene.Occluders[0][2] != (Point{20, 30}) {
		t.Errorf("unexpected vertex %v", cfg.Scene.Occluders[0][2])
	}
	if len(cfg.Scene.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(cfg.Scene.Lights))
	}
	want := lighting.Shape{SamplesPerRing: 4, RingProjection: 2, LayerCount: 3, LayerAngleStep: 45}
	if l := cfg.Scene.Lights[0]; l.ID != "lamp" || l.Radius != 150 || l.Shape != want {
		t.Errorf("unexpected light %+v", l)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadFileDefaultsLightShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
scene:
  lights:
    - id: bare
      x: 10
      y: 20
      radius: 100
      color: "#ffffff"
    - id: partial
      radius: 50
      color: "#ff0000"
      shape:
        layers: 2
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("a light without a shape should load: %v", err)
	}
	if got := cfg.Scene.Lights[0].Shape; got != lighting.DefaultShape {
		t.Errorf("expected the default shape, got %+v", got)
	}
	want := lighting.DefaultShape
	want.LayerCount = 2
	if got := cfg.Scene.Lights[1].Shape; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("window: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected an error for malformed YAML")
	}

	invalid := filepath.Join(tmpDir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("window:\n  width: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(invalid); err == nil {
		t.Error("expected a validation error for a negative width")
	}
}

func TestLoadAppliesFlags(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.Bind(fs)
	args := []string{"-config", configPath, "-width", "1024", "-no-glow", "-blur", "7", "-debug", "-silhouette", "tangent", "-save-config"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(&f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("flag should override file width, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 480 {
		t.Errorf("expected default height, got %d", cfg.Window.Height)
	}
	if cfg.Post.GlowEnabled || cfg.Post.BlurRadius != 7 {
		t.Errorf("unexpected post config %+v", cfg.Post)
	}
	if cfg.Logging.Level != "debug" || !cfg.Debug.ShowFPS {
		t.Error("-debug should enable debug logging and FPS")
	}
	if cfg.Scene.Silhouette != "tangent" {
		t.Errorf("expected tangent silhouette, got %q", cfg.Scene.Silhouette)
	}
	if !f.SaveConfig {
		t.Error("expected -save-config to be set")
	}
	if f.Output != "lightmap.png" {
		t.Errorf("unexpected default output %q", f.Output)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Window.Width = 1000
	cfg.Scene.Lights[1].Color = "#123456"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Window.Width != 1000 {
		t.Errorf("expected width 1000, got %d", loaded.Window.Width)
	}
	if loaded.Scene.Lights[1].Color != "#123456" {
		t.Errorf("expected colour to survive, got %q", loaded.Scene.Lights[1].Color)
	}
	if len(loaded.Scene.Occluders) != 2 || loaded.Scene.Occluders[0][3] != (Point{225, 285}) {
		t.Errorf("occluders did not round trip: %v", loaded.Scene.Occluders)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, nil},
		{"bad background", func(c *Config) { c.Scene.Background = "grey" }, nil},
		{"bad silhouette", func(c *Config) { c.Scene.Silhouette = "raytrace" }, nil},
		{"two-point occluder", func(c *Config) { c.Scene.Occluders = [][]Point{{{0, 0}, {1, 1}}} }, nil},
		{"grid without tile size", func(c *Config) { c.Scene.Grid = []string{"#"}; c.Scene.TileSize = 0 }, nil},
		{"negative radius", func(c *Config) { c.Scene.Lights[0].Radius = -1 }, lighting.ErrNegativeRadius},
		{"empty shape", func(c *Config) { c.Scene.Lights[0].Shape = lighting.Shape{} }, lighting.ErrInvalidShape},
		{"duplicate id", func(c *Config) { c.Scene.Lights[1].ID = c.Scene.Lights[0].ID }, nil},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v in %v", tt.target, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#00ffffc8", color.NRGBA{0, 255, 255, 200}, true},
		{"ffc800", color.NRGBA{255, 200, 0, 255}, true},
		{" #404040 ", color.NRGBA{64, 64, 64, 255}, true},
		{"#fff", color.NRGBA{}, false},
		{"#gg0000", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, c := range []color.NRGBA{{1, 2, 3, 255}, {0, 255, 255, 200}} {
		back, err := ParseColor(FormatColor(c))
		if err != nil || back != c {
			t.Errorf("FormatColor(%v) did not round trip: %v %v", c, back, err)
		}
	}
}
