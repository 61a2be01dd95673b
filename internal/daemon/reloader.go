package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/brandkit/internal/config"
	"github.com/jmylchreest/brandkit/internal/theme"
)

// ThemeReloader reconfigures a manager whenever its YAML theme declaration
// changes on disk. A declaration that fails to parse leaves the active
// configuration in place.
type ThemeReloader struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	manager *theme.Manager
	path    string
	watcher *fileWatcher

	onReloadCallback func(cfg theme.Config)
	onErrorCallback  func(err error)
}

// NewThemeReloader creates a reloader for the declaration at path.
func NewThemeReloader(manager *theme.Manager, path string, debounce time.Duration, logger *slog.Logger) *ThemeReloader {
	if logger == nil {
		logger = slog.Default()
	}
	r := &ThemeReloader{
		logger:  logger,
		manager: manager,
		path:    path,
	}
	r.watcher = newFileWatcher(path, debounce, logger, func() {
		_ = r.Reload()
	})
	return r
}

// SetReloadCallback sets the callback invoked after a successful reload.
func (r *ThemeReloader) SetReloadCallback(callback func(cfg theme.Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReloadCallback = callback
}

// SetErrorCallback sets the callback invoked when the declaration is invalid.
func (r *ThemeReloader) SetErrorCallback(callback func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onErrorCallback = callback
}

// Start begins watching the declaration.
func (r *ThemeReloader) Start(ctx context.Context) error {
	return r.watcher.Start(ctx)
}

// Stop stops watching.
func (r *ThemeReloader) Stop() {
	r.watcher.Stop()
}

// Reload reads the declaration and applies it to the manager.
func (r *ThemeReloader) Reload() error {
	r.mu.RLock()
	reloadCallback := r.onReloadCallback
	errorCallback := r.onErrorCallback
	r.mu.RUnlock()

	in, err := config.LoadThemeFile(r.path)
	if err != nil {
		r.logger.Warn("theme file changed but could not be loaded", "path", r.path, "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return err
	}

	cfg := r.manager.ConfigureTheme(in)
	r.logger.Info("theme reloaded", "path", r.path, "modes", cfg.Values())
	if reloadCallback != nil {
		reloadCallback(cfg)
	}
	return nil
}
