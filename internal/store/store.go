// Package store provides storage capabilities the theme manager persists the
// active mode through: an in-memory map, a JSON state file and SQLite.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/brandkit/internal/theme"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Errors
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrStorageClosed  = errors.New("storage is closed")
)

// Storage is a theme.Storage that may hold resources.
type Storage interface {
	theme.Storage
	Close() error
}

// DataDir returns the brandkit data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/brandkit.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "brandkit"), nil
}

// DefaultPath returns the default storage path for a backend.
func DefaultPath(backend string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendFile:
		return filepath.Join(dir, "state.json"), nil
	case BackendSQLite:
		return filepath.Join(dir, "state.db"), nil
	default:
		return "", nil
	}
}

// Open creates the storage for backend. An empty path selects the default
// location for file-backed backends.
func Open(backend, path string) (Storage, error) {
	if backend != BackendMemory && path == "" {
		var err error
		if path, err = DefaultPath(backend); err != nil {
			return nil, fmt.Errorf("resolve storage path: %w", err)
		}
	}

	switch backend {
	case BackendMemory, "":
		return NewMemoryStorage(), nil
	case BackendFile:
		return NewFileStorage(path), nil
	case BackendSQLite:
		return OpenSQLiteStorage(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
