// Package scene ties occluders, lights and post-processing together into
// the per-frame lightmap pipeline.
package scene

import (
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/logger"
	"chosenoffset.com/penumbra/internal/render/lighting"
	"chosenoffset.com/penumbra/internal/render/lightmap"
	"chosenoffset.com/penumbra/internal/render/postfx"
)

// Scene is everything needed to render one frame of light. It is not safe
// for concurrent use.
type Scene struct {
	Occluders []shadows.Polygon
	Lights    *lighting.Manager
	Post      postfx.Config

	Background    color.NRGBA
	OccluderColor color.NRGBA

	// Followers are the ids of lights that track the cursor.
	Followers []string

	lm     *lightmap.Lightmap
	post   *postfx.Processor
	raster *vector.Rasterizer
	log    *zap.Logger
}

// New creates an empty scene with a lightmap of the given size
func New(width, height int) *Scene {
	return &Scene{
		Lights:        lighting.NewManager(),
		Post:          postfx.DefaultConfig(),
		Background:    color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff},
		OccluderColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		lm:            lightmap.New(width, height),
		post:          postfx.NewProcessor(),
		log:           logger.Named("scene"),
	}
}

// Resize changes the viewport size. The lightmap is cleared.
func (s *Scene) Resize(width, height int) {
	if s.lm.Bounds() == image.Rect(0, 0, width, height) {
		return
	}
	s.lm.Resize(width, height)
	s.raster = nil
	s.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// Bounds returns the viewport rectangle
func (s *Scene) Bounds() image.Rectangle {
	return s.lm.Bounds()
}

// Lightmap returns the scene's accumulation buffer
func (s *Scene) Lightmap() *lightmap.Lightmap {
	return s.lm
}

// MoveFollowers moves every cursor-tracking light to (x, y)
func (s *Scene) MoveFollowers(x, y float64) {
	for _, id := range s.Followers {
		if l, ok := s.Lights.Get(id); ok {
			l.SetPosition(x, y)
		}
	}
}

// RenderLightmap clears the lightmap, paints every light around the
// occluders and applies the enabled post-processing. The returned image is
// reused by the next call.
func (s *Scene) RenderLightmap() *image.NRGBA {
	start := time.Now()
	s.lm.Clear()
	s.Lights.Render(s.lm, s.Occluders)
	s.post.Apply(s.lm, s.Post)
	if ce := s.log.Check(zap.DebugLevel, "lightmap rendered"); ce != nil {
		ce.Write(
			zap.Int("lights", s.Lights.Len()),
			zap.Int("occluders", len(s.Occluders)),
			zap.Duration("took", time.Since(start)))
	}
	return s.lm.Image()
}

// ShadowOutlines returns every shadow quad of every light sample, for
// debug overlays.
func (s *Scene) ShadowOutlines() []shadows.Polygon {
	var out []shadows.Polygon
	for _, l := range s.Lights.Lights() {
		out = append(out, l.ShadowQuads(s.Occluders)...)
	}
	return out
}

// Composite renders the lightmap and draws the final frame into dst: the
// background, the lightmap over it, then the occluders as solid shapes.
func (s *Scene) Composite(dst draw.Image) {
	s.RenderLightmap()
	s.CompositeLightmap(dst)
}

// CompositeLightmap draws the last rendered lightmap into dst without
// rendering a new one.
func (s *Scene) CompositeLightmap(dst draw.Image) {
	r := dst.Bounds().Intersect(s.lm.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
	draw.Draw(dst, r, s.lm.Image(), r.Min, draw.Over)
	s.fillOccluders(dst)
}

func (s *Scene) fillOccluders(dst draw.Image) {
	if len(s.Occluders) == 0 {
		return
	}
	b := dst.Bounds()
	if s.raster == nil || s.raster.Size() != b.Size() {
		s.raster = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		s.raster.Reset(b.Dx(), b.Dy())
	}
	view := shadows.Rect{
		Min: shadows.Point{X: float64(b.Min.X) - 1, Y: float64(b.Min.Y) - 1},
		Max: shadows.Point{X: float64(b.Max.X) + 1, Y: float64(b.Max.Y) + 1},
	}
	for _, occ := range s.Occluders {
		poly := occ.ClipToRect(view)
		if poly.IsDegenerate() {
			continue
		}
		if poly.SignedArea() < 0 {
			poly.Reverse()
		}
		s.raster.MoveTo(float32(poly[0].X)-float32(b.Min.X), float32(poly[0].Y)-float32(b.Min.Y))
		for _, p := range poly[1:] {
			s.raster.LineTo(float32(p.X)-float32(b.Min.X), float32(p.Y)-float32(b.Min.Y))
		}
		s.raster.ClosePath()
	}
	s.raster.DrawOp = draw.Over
	s.raster.Draw(dst, b, image.NewUniform(s.OccluderColor), image.Point{})
}
