package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrQuit is returned from Game.Update to end the loop cleanly.
var ErrQuit = errors.New("quit requested")

// Point is a screen-space vertex
type Point struct {
	X, Y float32
}

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// the demo logic.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillPolygon(dst Image, pts []Point, clr color.Color)
	StrokePolygon(dst Image, pts []Point, strokeWidth float32, clr color.Color)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// DrawImage draws src at the origin with source-over blending.
	DrawImage(src Image)

	// WritePixels replaces the image contents with a straight-alpha
	// image of the same size.
	WritePixels(src *image.NRGBA)

	// Resource management
	Dispose()
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
}

// Key represents a keyboard key.
type Key int

// Key constants for the demo toggles
const (
	KeyG Key = iota // glow
	KeyB            // blur
	KeyO            // shadow outlines
	KeyL            // light outlines
	KeyF            // FPS counter
	KeyEscape
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the demo state. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// ActualFPS returns the measured frame rate.
	ActualFPS() float64

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends. A game that
	// returns ErrQuit ends the loop without an error.
	RunGame(game Game) error
}
