// Package config handles loading and validating the lighting demo settings.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/logger"
	"chosenoffset.com/penumbra/internal/render/lighting"
	"chosenoffset.com/penumbra/internal/render/postfx"
)

// Config holds all settings for the interactive demo and the headless
// renderer.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Post    postfx.Config `yaml:"post"`
	Debug   DebugConfig   `yaml:"debug"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings. The lightmap always matches the
// window size.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DebugConfig holds overlay toggles
type DebugConfig struct {
	OutlineShadows bool `yaml:"outline_shadows"`
	OutlineLights  bool `yaml:"outline_lights"`
	ShowFPS        bool `yaml:"show_fps"`
}

// SceneConfig describes the occluders and lights
type SceneConfig struct {
	Background string `yaml:"background"`
	Occluder   string `yaml:"occluder_color"`

	// Silhouette is one of sampled, exact or tangent.
	Silhouette string `yaml:"silhouette"`
	Samples    int    `yaml:"samples"`

	Occluders       [][]Point `yaml:"occluders"`
	RandomOccluders int       `yaml:"random_occluders"`
	Seed            uint64    `yaml:"seed"`

	// Grid rows use '#' for blocking tiles and anything else for open ones.
	Grid     []string `yaml:"grid"`
	TileSize int      `yaml:"tile_size"`
	GridX    float64  `yaml:"grid_x"`
	GridY    float64  `yaml:"grid_y"`

	Lights []LightConfig `yaml:"lights"`
}

// Point is a polygon vertex in pixels
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LightConfig describes one soft light
type LightConfig struct {
	ID           string         `yaml:"id"`
	X            float64        `yaml:"x"`
	Y            float64        `yaml:"y"`
	Radius       float64        `yaml:"radius"`
	Color        string         `yaml:"color"` // #RRGGBB or #RRGGBBAA
	Shape        lighting.Shape `yaml:"shape"`
	FollowCursor bool           `yaml:"follow_cursor"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the classic two-light demo scene.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Penumbra",
			Width:  640,
			Height: 480,
		},
		Post: postfx.DefaultConfig(),
		Scene: SceneConfig{
			Background: "#404040",
			Occluder:   "#ffffff",
			Silhouette: shadows.SilhouetteSampled.String(),
			Samples:    shadows.DefaultSamples,
			Occluders: [][]Point{
				{{225, 245}, {245, 245}, {245, 275}, {225, 285}},
				{{200, 180}, {220, 190}, {210, 220}, {190, 210}},
			},
			RandomOccluders: 5,
			Seed:            1,
			TileSize:        32,
			Lights: []LightConfig{
				{
					ID:           "cursor",
					X:            200,
					Y:            200,
					Radius:       300,
					Color:        "#00ffffc8",
					Shape:        lighting.DefaultShape,
					FollowCursor: true,
				},
				{
					ID:     "amber",
					X:      250,
					Y:      200,
					Radius: 200,
					Color:  "#ffc800c8",
					Shape:  lighting.DefaultShape,
				},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the config for values the renderer cannot use
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Post.GlowAmount < 0 {
		errs = append(errs, fmt.Errorf("glow amount %v must not be negative", c.Post.GlowAmount))
	}
	if _, err := ParseColor(c.Scene.Background); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}
	if _, err := ParseColor(c.Scene.Occluder); err != nil {
		errs = append(errs, fmt.Errorf("occluder colour: %w", err))
	}
	if _, err := shadows.ParseSilhouetteMode(c.Scene.Silhouette); err != nil {
		errs = append(errs, err)
	}
	for i, occ := range c.Scene.Occluders {
		if len(occ) < 3 {
			errs = append(errs, fmt.Errorf("occluder %d has %d vertices, need at least 3", i, len(occ)))
		}
	}
	if c.Scene.RandomOccluders < 0 {
		errs = append(errs, fmt.Errorf("random occluders %d must not be negative", c.Scene.RandomOccluders))
	}
	if len(c.Scene.Grid) > 0 && c.Scene.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile size %d must be positive", c.Scene.TileSize))
	}

	seen := make(map[string]bool)
	for i, l := range c.Scene.Lights {
		name := l.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("light %s: duplicate id", name))
		}
		seen[l.ID] = true
		if l.Radius < 0 {
			errs = append(errs, fmt.Errorf("light %s: %w: %v", name, lighting.ErrNegativeRadius, l.Radius))
		}
		if _, err := ParseColor(l.Color); err != nil {
			errs = append(errs, fmt.Errorf("light %s: %w", name, err))
		}
		if err := l.Shape.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %s: %w", name, err))
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseColor parses #RRGGBB or #RRGGBBAA. A missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("invalid colour %q", s)
	}
	if err != nil {
		return c, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// FormatColor is the inverse of ParseColor
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
