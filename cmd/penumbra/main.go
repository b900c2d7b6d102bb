// Package main is the entry point for the interactive soft shadow demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"chosenoffset.com/penumbra/internal/config"
	"chosenoffset.com/penumbra/internal/game"
	"chosenoffset.com/penumbra/internal/logger"
	ebitenrender "chosenoffset.com/penumbra/internal/render/ebiten"
	"chosenoffset.com/penumbra/internal/scene"
)

func main() {
	// Parse CLI flags first
	flags := config.ParseFlags()

	// Load configuration
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Penumbra ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if flags.SaveConfig {
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		} else {
			logger.Debug("saved config", zap.String("dir", config.ConfigDir()))
		}
	}

	s, err := scene.FromConfig(cfg)
	if err != nil {
		logger.Error("failed to build scene", zap.Error(err))
		os.Exit(1)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	g := game.New(s, cfg.Debug, renderer, inputMgr)
	g.FPS = engine.ActualFPS

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(true)

	if err := engine.RunGame(g); err != nil {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("demo closed normally")
}
