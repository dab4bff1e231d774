package shared

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file itself since most editors
// replace the file on save.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *log.Logger
}

// NewConfigWatcher starts watching path. Events are only delivered once [ConfigWatcher.Run] is called.
func NewConfigWatcher(path string, logger *log.Logger) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	if logger == nil {
		logger = NewLogger(nil)
	}

	return &ConfigWatcher{path: abs, watcher: w, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (cw *ConfigWatcher) Path() string {
	return cw.path
}

// Run blocks until ctx is done, calling onChange with each successfully reloaded config.
//
// A file that fails to parse or validate is logged and skipped; the previous config stays in effect.
func (cw *ConfigWatcher) Run(ctx context.Context, onChange func(*Config)) error {
	defer cw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			config, err := ResolveConfig(cw.path)
			if err != nil {
				cw.logger.Warn("config reload failed", "path", cw.path, "error", err)
				continue
			}

			cw.logger.Info("config reloaded", "path", cw.path, "api", config.API.BaseURL)
			onChange(config)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("config watcher error", "error", err)
		}
	}
}
