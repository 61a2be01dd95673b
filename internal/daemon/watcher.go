package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher watches a single file and calls onChange once per burst of
// writes. The parent directory is watched so atomic renames are seen.
type fileWatcher struct {
	logger   *slog.Logger
	path     string
	debounce time.Duration
	onChange func()

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newFileWatcher(path string, debounce time.Duration, logger *slog.Logger, onChange func()) *fileWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileWatcher{
		logger:   logger,
		path:     path,
		debounce: debounce,
		onChange: onChange,
	}
}

// Start begins watching. It returns once the watch is registered.
func (fw *fileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory containing the file (more reliable for writes)
	if err := watcher.Add(filepath.Dir(fw.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	fw.running = true
	fw.stopCh = make(chan struct{})
	fw.doneCh = make(chan struct{})
	go fw.watchLoop(ctx, watcher, fw.stopCh, fw.doneCh)

	fw.logger.Debug("file watcher started", "path", fw.path, "debounce", fw.debounce)
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (fw *fileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = false
	close(fw.stopCh)
	done := fw.doneCh
	fw.mu.Unlock()

	<-done
	fw.logger.Debug("file watcher stopped", "path", fw.path)
}

// Running reports whether the watch loop is active.
func (fw *fileWatcher) Running() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}

func (fw *fileWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer watcher.Close()
	// A loop that ends on its own (context cancelled, watcher closed) must
	// leave the watcher restartable.
	defer func() {
		fw.mu.Lock()
		if fw.doneCh == doneCh {
			fw.running = false
		}
		fw.mu.Unlock()
	}()

	filename := filepath.Base(fw.path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if fw.debounce <= 0 {
				fw.onChange()
				continue
			}
			pending = time.After(fw.debounce)

		case <-pending:
			pending = nil
			fw.onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "path", fw.path, "error", err)
		}
	}
}
