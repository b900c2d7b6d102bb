// Package main renders one composited frame of the configured scene to a
// PNG file without opening a window.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"go.uber.org/zap"

	"chosenoffset.com/penumbra/internal/config"
	"chosenoffset.com/penumbra/internal/logger"
	"chosenoffset.com/penumbra/internal/scene"
)

func main() {
	flags := config.ParseFlags()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, flags.Output); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, out string) error {
	s, err := scene.FromConfig(cfg)
	if err != nil {
		return err
	}

	frame := image.NewRGBA(s.Bounds())
	s.Composite(frame)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info("wrote frame",
		zap.String("path", out),
		zap.Int("width", frame.Rect.Dx()),
		zap.Int("height", frame.Rect.Dy()))
	return nil
}
