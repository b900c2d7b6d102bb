package lighting

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/render/lightmap"
)

// ErrInvalidShape is returned for soft light shapes that would produce no
// samples.
var ErrInvalidShape = errors.New("invalid soft light shape")

// Shape controls how a soft light is split into point samples
type Shape struct {
	SamplesPerRing int     `yaml:"samples_per_ring"`
	RingProjection float64 `yaml:"ring_projection"`
	LayerCount     int     `yaml:"layers"`
	LayerAngleStep float64 `yaml:"layer_angle"`
}

// DefaultShape is 2 samples per ring, 5 layers 3px apart, each rotated 90°
var DefaultShape = Shape{
	SamplesPerRing: 2,
	RingProjection: 3,
	LayerCount:     5,
	LayerAngleStep: 90,
}

// Validate checks that the shape yields at least one sample
func (s Shape) Validate() error {
	if s.SamplesPerRing < 1 {
		return fmt.Errorf("%w: samples per ring %d < 1", ErrInvalidShape, s.SamplesPerRing)
	}
	if s.LayerCount < 1 {
		return fmt.Errorf("%w: layer count %d < 1", ErrInvalidShape, s.LayerCount)
	}
	return nil
}

// SampleCount returns SamplesPerRing * LayerCount
func (s Shape) SampleCount() int {
	return s.SamplesPerRing * s.LayerCount
}

// SoftLight approximates an area light with concentric rings of dim point
// lights. Each sample casts its own hard shadow; their overlap produces the
// penumbra.
type SoftLight struct {
	center  *PointLight
	shape   Shape
	samples []*PointLight
	caster  shadows.Caster
	cache   *SpriteCache

	quads []shadows.Polygon
}

// NewSoftLight splits center into shape.SampleCount() samples. The soft light
// takes ownership of center and moves it along with the samples. cache may
// be nil.
func NewSoftLight(center *PointLight, shape Shape, cache *SpriteCache) (*SoftLight, error) {
	sl := &SoftLight{cache: cache}
	if err := sl.RebuildSamples(center, shape); err != nil {
		return nil, err
	}
	return sl, nil
}

// RebuildSamples replaces every sample. Layer j is rotated by
// LayerAngleStep*j degrees and pushed RingProjection*j pixels out; within a
// layer the samples are 360/SamplesPerRing degrees apart. Every sample gets
// center's colour with alpha center.A / SamplesPerRing / LayerCount.
func (sl *SoftLight) RebuildSamples(center *PointLight, shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	c := center.Color()
	c.A = uint8(int(c.A) / shape.SamplesPerRing / shape.LayerCount)

	origin := center.Position()
	step := 360 / float64(shape.SamplesPerRing)
	samples := make([]*PointLight, 0, shape.SampleCount())
	for j := 0; j < shape.LayerCount; j++ {
		rotation := shape.LayerAngleStep * float64(j)
		projection := shape.RingProjection * float64(j)
		for i := 0; i < shape.SamplesPerRing; i++ {
			rad := (rotation + step*float64(i)) * math.Pi / 180
			pos := shadows.Point{
				X: origin.X + math.Cos(rad)*projection,
				Y: origin.Y + math.Sin(rad)*projection,
			}
			l, err := NewPointLight(pos, center.Radius(), c, sl.cache)
			if err != nil {
				return fmt.Errorf("build soft light sample: %w", err)
			}
			samples = append(samples, l)
		}
	}

	sl.center = center
	sl.shape = shape
	sl.samples = samples
	return nil
}

// SetPosition moves the light so that its first sample lands on (x, y).
// Every other sample keeps its offset.
func (sl *SoftLight) SetPosition(x, y float64) {
	first := sl.samples[0].Position()
	delta := shadows.Point{X: x - first.X, Y: y - first.Y}
	for _, s := range sl.samples {
		s.SetPosition(s.Position().Add(delta))
	}
	sl.center.SetPosition(sl.center.Position().Add(delta))
}

// Position returns the position of the first sample
func (sl *SoftLight) Position() shadows.Point {
	return sl.samples[0].Position()
}

func (sl *SoftLight) Radius() float64 { return sl.center.Radius() }
func (sl *SoftLight) Color() color.NRGBA { return sl.center.Color() }
func (sl *SoftLight) Shape() Shape { return sl.shape }
func (sl *SoftLight) Samples() []*PointLight { return sl.samples }

// SetCaster selects how sample shadows are computed
func (sl *SoftLight) SetCaster(c shadows.Caster) {
	sl.caster = c
}

// RenderInto paints every sample into lm. For each sample the shadow quads
// of all occluders in range are unioned; the sample sprite is then drawn
// clipped to the viewport minus that union, or unclipped when nothing is in
// range.
func (sl *SoftLight) RenderInto(lm *lightmap.Lightmap, occluders []shadows.Polygon) {
	for _, s := range sl.samples {
		sl.quads = sl.appendQuads(sl.quads[:0], s, occluders)
		origin := s.Origin()
		if len(sl.quads) == 0 {
			lm.DrawSprite(s.Sprite(), origin.X, origin.Y, nil)
			continue
		}
		shadow := lm.ShadowRegion(sl.quads)
		lm.DrawSprite(s.Sprite(), origin.X, origin.Y, lm.ViewportMinus(shadow))
	}
}

// ShadowQuads returns the shadow outline of every occluder for every sample
func (sl *SoftLight) ShadowQuads(occluders []shadows.Polygon) []shadows.Polygon {
	var out []shadows.Polygon
	for _, s := range sl.samples {
		out = sl.appendQuads(out, s, occluders)
	}
	return out
}

func (sl *SoftLight) appendQuads(dst []shadows.Polygon, s *PointLight, occluders []shadows.Polygon) []shadows.Polygon {
	for _, occ := range occluders {
		q, ok := sl.caster.Cast(s.Position(), s.Radius(), occ)
		if !ok {
			continue
		}
		dst = append(dst, q.Points())
	}
	return dst
}
