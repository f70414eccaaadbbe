package hub

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/paths"
	"github.com/sirupsen/logrus"
)

// ConfigWatcher watches the config directory for changes to chime.yml and
// reloads the configuration, so channel toggles and mute patterns apply
// without a hub restart.
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	debounceMs int
	lastChange time.Time
	mu         sync.Mutex
	logger     *logrus.Entry
	onReload   func(*config.Config)
}

// NewConfigWatcher creates a watcher on the chime config directory. The
// debounceMs parameter controls how long to wait before processing rapid
// changes. The onReload callback receives each successfully reloaded
// configuration.
func NewConfigWatcher(debounceMs int, onReload func(*config.Config)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(paths.ConfigDir()); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 200
	}

	return &ConfigWatcher{
		watcher:    watcher,
		debounceMs: debounceMs,
		logger:     logging.NewLogger("config-watcher"),
		onReload:   onReload,
	}, nil
}

// Start begins watching for config changes. It blocks until the context is cancelled.
func (w *ConfigWatcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if strings.HasSuffix(event.Name, ".yml") || strings.HasSuffix(event.Name, ".yaml") {
					w.handleChange(event.Name)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// handleChange processes a config file change with debouncing.
func (w *ConfigWatcher) handleChange(file string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Debounce rapid writes
	elapsed := time.Since(w.lastChange)
	if elapsed < time.Duration(w.debounceMs)*time.Millisecond {
		w.logger.Debugf("Debounced: %s (only %v since last change)", filepath.Base(file), elapsed)
		return
	}
	w.lastChange = time.Now()

	w.logger.Infof("Config changed: %s", filepath.Base(file))

	cfg, err := config.LoadDefault()
	if err != nil {
		// Keep running on the previous configuration
		w.logger.WithError(err).Error("Failed to reload config, keeping current settings")
		return
	}

	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Close stops the watcher and releases resources.
func (w *ConfigWatcher) Close() error {
	return w.watcher.Close()
}
