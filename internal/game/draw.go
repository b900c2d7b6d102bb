package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/render"
)

var (
	shadowOutlineColor = color.RGBA{255, 0, 0, 255}
	lightOutlineColor  = color.RGBA{255, 255, 0, 255}
)

// Draw renders the demo to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()
	if g.Scene.Bounds().Dx() != w || g.Scene.Bounds().Dy() != h {
		g.Scene.Resize(w, h)
	}

	// Ensure the light texture exists and is the right size
	if g.LightTexture == nil || needsResize(g.LightTexture, w, h) {
		if g.LightTexture != nil {
			g.LightTexture.Dispose()
		}
		g.LightTexture = g.Renderer.NewImage(w, h)
	}

	// Step 1: Background, then the lightmap over it
	screen.Fill(g.Scene.Background)
	g.LightTexture.WritePixels(g.Scene.RenderLightmap())
	screen.DrawImage(g.LightTexture)

	// Step 2: Occluders as solid shapes on top of the light
	for _, occ := range g.Scene.Occluders {
		g.Renderer.FillPolygon(screen, toPoints(occ), g.Scene.OccluderColor)
	}

	// Step 3: Debug overlays and text
	if g.Debug.OutlineShadows {
		for _, quad := range g.Scene.ShadowOutlines() {
			g.Renderer.StrokePolygon(screen, toPoints(quad), 1, shadowOutlineColor)
		}
	}
	if g.Debug.OutlineLights {
		for _, l := range g.Scene.Lights.Lights() {
			p := l.Position()
			g.Renderer.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(l.Radius()), 1, lightOutlineColor)
			for _, s := range l.Samples() {
				sp := s.Position()
				g.Renderer.FillCircle(screen, float32(sp.X), float32(sp.Y), 2, lightOutlineColor)
			}
		}
	}
	g.drawUI(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

func toPoints(poly shadows.Polygon) []render.Point {
	pts := make([]render.Point, len(poly))
	for i, p := range poly {
		pts[i] = render.Point{X: float32(p.X), Y: float32(p.Y)}
	}
	return pts
}

func (g *Game) drawUI(screen render.Image) {
	y := 4
	if g.Debug.ShowFPS && g.FPS != nil {
		g.Renderer.DrawText(screen, fmt.Sprintf("FPS: %0.1f", g.FPS()), 4, y)
		y += 16
	}
	for _, msg := range g.Messages {
		g.Renderer.DrawText(screen, msg.Text, 4, y)
		y += 16
	}
}
