package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pixelforge/internal/logger"
)

// Watch calls fn with the reloaded config each time path is written,
// until ctx is done. The parent directory is watched so editors that save
// by rename are still seen. Unreadable or invalid files are logged; fn is
// still called with the corrected config when the file parsed.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	log := logger.L(ctx).With(zap.String("path", path))
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Warn("reload config", zap.Error(err))
					if cfg == nil {
						continue
					}
				}
				log.Info("config reloaded")
				fn(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("config watcher", zap.Error(err))
			}
		}
	}()
	return nil
}
