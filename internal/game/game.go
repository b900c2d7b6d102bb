// Package game runs the interactive lighting demo on top of the render
// abstraction: the cursor drags the following lights and keys toggle the
// post-processing and debug overlays.
package game

import (
	"image"

	"go.uber.org/zap"

	"chosenoffset.com/penumbra/internal/config"
	"chosenoffset.com/penumbra/internal/logger"
	"chosenoffset.com/penumbra/internal/render"
	"chosenoffset.com/penumbra/internal/scene"
)

const messageDuration = 2.0

// Game holds the demo state.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Scene        *scene.Scene
	Debug        config.DebugConfig
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// FPS reports the measured frame rate for the overlay. May be nil.
	FPS func() float64

	LightTexture render.Image

	// UI state
	Messages []Message

	cursor    image.Point
	hasCursor bool
	log       *zap.Logger
}

// New creates a demo around an already built scene.
func New(s *scene.Scene, debug config.DebugConfig, r render.Renderer, input render.InputManager) *Game {
	b := s.Bounds()
	return &Game{
		ScreenWidth:  b.Dx(),
		ScreenHeight: b.Dy(),
		Scene:        s,
		Debug:        debug,
		Renderer:     r,
		InputMgr:     input,
		log:          logger.Named("game"),
	}
}

// Update handles input. It returns render.ErrQuit when Escape is pressed.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		g.log.Info("quit requested")
		return render.ErrQuit
	}

	x, y := g.InputMgr.GetCursorPosition()
	if p := image.Pt(x, y); !g.hasCursor || p != g.cursor {
		g.cursor, g.hasCursor = p, true
		g.Scene.MoveFollowers(float64(x), float64(y))
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyG) {
		g.Scene.Post.GlowEnabled = !g.Scene.Post.GlowEnabled
		g.ShowMessage(toggleText("Glow", g.Scene.Post.GlowEnabled))
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyB) {
		g.Scene.Post.BlurEnabled = !g.Scene.Post.BlurEnabled
		g.ShowMessage(toggleText("Blur", g.Scene.Post.BlurEnabled))
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyO) {
		g.Debug.OutlineShadows = !g.Debug.OutlineShadows
		g.ShowMessage(toggleText("Shadow outlines", g.Debug.OutlineShadows))
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyL) {
		g.Debug.OutlineLights = !g.Debug.OutlineLights
		g.ShowMessage(toggleText("Light outlines", g.Debug.OutlineLights))
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyF) {
		g.Debug.ShowFPS = !g.Debug.ShowFPS
	}

	return nil
}

// Layout follows the window size and resizes the scene to match.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.ScreenWidth || outsideHeight != g.ScreenHeight) {
		g.ScreenWidth, g.ScreenHeight = outsideWidth, outsideHeight
		g.Scene.Resize(outsideWidth, outsideHeight)
	}
	return g.ScreenWidth, g.ScreenHeight
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: messageDuration,
		MaxTime:  messageDuration,
	})
	g.log.Debug("message", zap.String("text", text))
}

func toggleText(name string, on bool) string {
	if on {
		return name + " on"
	}
	return name + " off"
}
