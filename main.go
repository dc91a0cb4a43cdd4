// Package main provides the entry point for the PixelForge editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"pixelforge/internal/app"
	"pixelforge/internal/config"
	"pixelforge/internal/logger"
	"pixelforge/internal/storage"
	"pixelforge/internal/version"
	"pixelforge/ui/mainwindow"
)

const appID = "io.pixelforge.editor"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config.toml")
	flag.Parse()

	cfg, cfgErr := config.Load(*configPath)
	if cfg == nil {
		cfg = config.Default()
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("starting", zap.String("version", version.Version), zap.String("config", *configPath))
	if cfgErr != nil {
		log.Warn("config problems, using defaults where needed", zap.Error(cfgErr))
	}

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	state := app.NewState(
		app.WithLogger(log),
		app.WithCanvasSize(cfg.Canvas.Width, cfg.Canvas.Height),
		app.WithHistoryLimit(cfg.History.Limit),
		app.WithCoalesceStrokes(cfg.History.CoalesceStrokes),
		app.WithInterpolateStrokes(cfg.History.InterpolateStrokes),
		app.WithZoom(cfg.UI.Zoom),
	)
	state.SetAutosave(cfg.Autosave.Enabled)

	if args := flag.Args(); len(args) > 0 {
		if err := state.OpenProject(args[0]); err != nil {
			log.Error("failed to open project", zap.String("path", args[0]), zap.Error(err))
		}
	}

	dir := cfg.Autosave.Dir
	if dir == "" {
		dir = storage.DefaultDir()
	}
	saver := app.NewAutosaver(state, storage.NewFileStore(dir), cfg.Autosave.Interval, log)
	if len(flag.Args()) == 0 {
		if ok, err := saver.Restore(); err != nil {
			log.Warn("autosave not restored", zap.Error(err))
		} else if ok {
			log.Info("restored autosave", zap.String("dir", dir))
		}
	}
	saver.Start(ctx)

	if err := config.Watch(ctx, *configPath, func(c *config.Config) {
		state.SetCoalesceStrokes(c.History.CoalesceStrokes)
		state.SetInterpolateStrokes(c.History.InterpolateStrokes)
		state.SetAutosave(c.Autosave.Enabled)
		saver.SetInterval(c.Autosave.Interval)
	}); err != nil {
		log.Warn("config hot reload disabled", zap.Error(err))
	}

	fyneApp := fyneapp.NewWithID(appID)
	win := mainwindow.New(fyneApp, state, log)
	win.ShowAndRun()

	saver.Stop()
	if state.AutosaveEnabled() {
		if err := saver.SaveNow(); err != nil {
			log.Warn("final autosave failed", zap.Error(err))
		}
	}
	log.Info("exiting")
}
