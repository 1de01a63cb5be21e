// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mia-platform/calllog/internal/logger"
)

const watcherLoggerName = "calllog:config"

// Watch reloads the file at path into store every time it changes, until ctx is done.
// A file that fails to parse leaves the previous configuration in place.
func Watch(ctx context.Context, path string, store *Store) error {
	log := logger.Named(ctx, watcherLoggerName)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	// watch the directory: editors replace the file on save
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				cfg, err := FromFile(path)
				if err != nil {
					log.Error("configuration reload failed", "path", path, "error", err.Error())
					continue
				}
				store.Set(cfg)
				log.Info("configuration reloaded", "path", path, "enabled", cfg.Enabled, "level", cfg.Level)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("configuration watcher error", "error", err.Error())
			}
		}
	}()

	return nil
}
