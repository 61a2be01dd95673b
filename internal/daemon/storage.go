package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// Revisioner is implemented by storage that stamps every write, such as
// store.FileStorage.
type Revisioner interface {
	Revision(key string) (string, error)
}

// StorageWatcher re-restores the stored mode when another process changes it.
// Writes made by the watched manager itself are recognised because the
// stored value already equals the current mode.
type StorageWatcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	manager *theme.Manager
	storage theme.Storage
	watcher *fileWatcher

	lastRevision string

	onRestoreCallback func(mode string)
}

// NewStorageWatcher watches path, the file backing storage.
func NewStorageWatcher(manager *theme.Manager, storage theme.Storage, path string, debounce time.Duration, logger *slog.Logger) *StorageWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &StorageWatcher{
		logger:  logger,
		manager: manager,
		storage: storage,
	}
	w.watcher = newFileWatcher(path, debounce, logger, w.checkForChanges)
	return w
}

// SetRestoreCallback sets the callback invoked after an external change was adopted.
func (w *StorageWatcher) SetRestoreCallback(callback func(mode string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRestoreCallback = callback
}

// Start records the current revision and begins watching.
func (w *StorageWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	w.lastRevision = w.revision(w.manager.PersistenceState().Key)
	w.mu.Unlock()

	return w.watcher.Start(ctx)
}

// Stop stops watching.
func (w *StorageWatcher) Stop() {
	w.watcher.Stop()
}

func (w *StorageWatcher) checkForChanges() {
	state := w.manager.PersistenceState()
	if !state.Enabled {
		return
	}

	w.mu.Lock()
	if rev := w.revision(state.Key); rev != "" {
		if rev == w.lastRevision {
			w.mu.Unlock()
			return
		}
		w.lastRevision = rev
	}
	callback := w.onRestoreCallback
	w.mu.Unlock()

	stored, ok, err := w.storage.GetItem(state.Key)
	if err != nil {
		w.logger.Warn("failed to read stored theme", "key", state.Key, "error", err)
		return
	}
	if !ok || stored == w.manager.ThemeMode() {
		return
	}

	w.logger.Debug("stored theme changed externally", "key", state.Key, "mode", stored)
	w.manager.ConfigureThemePersistence(theme.PersistenceInput{
		Enabled:    true,
		StorageKey: state.Key,
		Storage:    w.storage,
	})
	if w.manager.WasThemeRestoredFromPersistence() && callback != nil {
		callback(w.manager.ThemeMode())
	}
}

// revision returns "" when the storage does not track revisions.
func (w *StorageWatcher) revision(key string) string {
	r, ok := w.storage.(Revisioner)
	if !ok {
		return ""
	}
	rev, err := r.Revision(key)
	if err != nil {
		w.logger.Debug("failed to read storage revision", "key", key, "error", err)
		return ""
	}
	return rev
}
