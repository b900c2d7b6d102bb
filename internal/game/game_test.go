package game

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"chosenoffset.com/penumbra/internal/config"
	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/render"
	"chosenoffset.com/penumbra/internal/render/lighting"
	"chosenoffset.com/penumbra/internal/render/postfx"
	"chosenoffset.com/penumbra/internal/scene"
)

type fakeImage struct {
	w, h     int
	fill     color.Color
	written  int
	lastSize image.Point
	drawn    int
	disposed bool
}

func (i *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, i.w, i.h) }
func (i *fakeImage) Size() (int, int) { return i.w, i.h }
func (i *fakeImage) Fill(clr color.Color) { i.fill = clr }
func (i *fakeImage) Clear() {}
func (i *fakeImage) DrawImage(render.Image) { i.drawn++ }
func (i *fakeImage) Dispose() { i.disposed = true }
func (i *fakeImage) WritePixels(src *image.NRGBA) {
	i.written++
	i.lastSize = src.Rect.Size()
}

type fakeRenderer struct {
	images   []*fakeImage
	polygons int
	strokes  int
	circles  int
	texts    []string
}

func (r *fakeRenderer) NewImage(w, h int) render.Image {
	img := &fakeImage{w: w, h: h}
	r.images = append(r.images, img)
	return img
}
func (r *fakeRenderer) FillPolygon(render.Image, []render.Point, color.Color) { r.polygons++ }
func (r *fakeRenderer) StrokePolygon(render.Image, []render.Point, float32, color.Color) {
	r.strokes++
}
func (r *fakeRenderer) FillCircle(render.Image, float32, float32, float32, color.Color) {}
func (r *fakeRenderer) StrokeCircle(render.Image, float32, float32, float32, float32, color.Color) {
	r.circles++
}
func (r *fakeRenderer) DrawText(_ render.Image, text string, _, _ int) {
	r.texts = append(r.texts, text)
}

type fakeInput struct {
	pressed map[render.Key]bool
	x, y    int
}

func (in *fakeInput) IsKeyJustPressed(k render.Key) bool { return in.pressed[k] }
func (in *fakeInput) GetCursorPosition() (int, int) { return in.x, in.y }

func newTestGame(t *testing.T) (*Game, *fakeRenderer, *fakeInput) {
	t.Helper()
	s := scene.New(320, 240)
	s.Post = postfx.Config{}
	s.Occluders = []shadows.Polygon{
		{{X: 100, Y: 100}, {X: 120, Y: 100}, {X: 120, Y: 120}, {X: 100, Y: 120}},
	}
	center, err := lighting.NewPointLight(shadows.Point{X: 50, Y: 50}, 100, color.NRGBA{G: 255, B: 255, A: 200}, s.Lights.Cache())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Lights.AddPointLight("cursor", center, lighting.Shape{SamplesPerRing: 1, LayerCount: 1}); err != nil {
		t.Fatal(err)
	}
	s.Followers = []string{"cursor"}

	r := &fakeRenderer{}
	in := &fakeInput{pressed: map[render.Key]bool{}, x: 50, y: 50}
	return New(s, config.DebugConfig{}, r, in), r, in
}

func TestUpdateMovesFollowers(t *testing.T) {
	g, _, in := newTestGame(t)
	in.x, in.y = 150, 60
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	l, _ := g.Scene.Lights.Get("cursor")
	if l.Position() != (shadows.Point{X: 150, Y: 60}) {
		t.Errorf("expected the light to follow the cursor, got %v", l.Position())
	}
}

func TestUpdateToggles(t *testing.T) {
	g, _, in := newTestGame(t)
	in.pressed[render.KeyG] = true
	in.pressed[render.KeyB] = true
	in.pressed[render.KeyO] = true
	in.pressed[render.KeyL] = true
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !g.Scene.Post.GlowEnabled || !g.Scene.Post.BlurEnabled {
		t.Errorf("expected glow and blur toggled on, got %+v", g.Scene.Post)
	}
	if !g.Debug.OutlineShadows || !g.Debug.OutlineLights {
		t.Errorf("expected outlines toggled on, got %+v", g.Debug)
	}
	if len(g.Messages) != 4 || g.Messages[0].Text != "Glow on" {
		t.Errorf("unexpected messages %+v", g.Messages)
	}

	in.pressed = map[render.Key]bool{render.KeyG: true}
	g.Update()
	if g.Scene.Post.GlowEnabled {
		t.Error("second press should turn glow off")
	}
}

func TestMessagesExpire(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.ShowMessage("hello")
	for i := 0; i < int(messageDuration*60)+1; i++ {
		g.Update()
	}
	if len(g.Messages) != 0 {
		t.Errorf("expected messages to expire, got %+v", g.Messages)
	}
}

func TestEscapeQuits(t *testing.T) {
	g, _, in := newTestGame(t)
	in.pressed[render.KeyEscape] = true
	if err := g.Update(); !errors.Is(err, render.ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
}

func TestLayoutResizesScene(t *testing.T) {
	g, _, _ := newTestGame(t)
	w, h := g.Layout(400, 300)
	if w != 400 || h != 300 {
		t.Errorf("expected 400x300, got %dx%d", w, h)
	}
	if g.Scene.Bounds() != image.Rect(0, 0, 400, 300) {
		t.Errorf("scene not resized: %v", g.Scene.Bounds())
	}
	if w, h := g.Layout(0, 0); w != 400 || h != 300 {
		t.Errorf("zero outside size should keep the layout, got %dx%d", w, h)
	}
}

func TestDraw(t *testing.T) {
	g, r, _ := newTestGame(t)
	screen := &fakeImage{w: 320, h: 240}
	g.Draw(screen)

	if len(r.images) != 1 {
		t.Fatalf("expected one light texture, got %d", len(r.images))
	}
	tex := r.images[0]
	if tex.written != 1 || tex.lastSize != image.Pt(320, 240) {
		t.Errorf("expected one lightmap upload of 320x240, got %d of %v", tex.written, tex.lastSize)
	}
	if screen.fill != g.Scene.Background || screen.drawn != 1 {
		t.Errorf("expected background fill and one texture draw, got %v and %d", screen.fill, screen.drawn)
	}
	if r.polygons != 1 {
		t.Errorf("expected one filled occluder, got %d", r.polygons)
	}
	if r.strokes != 0 || r.circles != 0 {
		t.Error("outlines should be off by default")
	}

	g.Debug = config.DebugConfig{OutlineShadows: true, OutlineLights: true, ShowFPS: true}
	g.FPS = func() float64 { return 60 }
	g.Draw(screen)
	if r.strokes != 1 {
		t.Errorf("expected one shadow outline, got %d", r.strokes)
	}
	if r.circles != 1 {
		t.Errorf("expected one light outline, got %d", r.circles)
	}
	if len(r.texts) != 1 || r.texts[0] != "FPS: 60.0" {
		t.Errorf("unexpected text %v", r.texts)
	}
	if len(r.images) != 1 {
		t.Error("light texture should be reused at the same size")
	}

	g.Draw(&fakeImage{w: 160, h: 120})
	if len(r.images) != 2 || !tex.disposed {
		t.Error("light texture should be replaced after a resize")
	}
}
