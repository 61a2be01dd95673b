package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// CurrentSchemaVersion is the current version of the state file schema.
const CurrentSchemaVersion = 1

// fileItem is one stored value with change metadata.
type fileItem struct {
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"` // Unix timestamp
	Revision  string `json:"revision"`   // ULID stamped on every write
}

// fileState is the JSON structure of the state file.
type fileState struct {
	SchemaVersion int                 `json:"schema_version"`
	Items         map[string]fileItem `json:"items"`
}

// fileLocks holds one lock per state file path, shared by every FileStorage
// in the process that points at it.
var fileLocks sync.Map // map[string]*sync.RWMutex

func fileLock(path string) *sync.RWMutex {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	l, _ := fileLocks.LoadOrStore(path, &sync.RWMutex{})
	return l.(*sync.RWMutex)
}

// FileStorage persists items in a JSON state file shared between processes.
// Every call re-reads the file so changes made by other processes are seen.
// Instances on the same path serialise their read-modify-write cycles, and
// each write goes through its own temp file, so concurrent writers never
// fail each other's rename.
type FileStorage struct {
	mu     sync.RWMutex
	path   string
	lock   *sync.RWMutex
	closed bool
}

// NewFileStorage creates a FileStorage at path. The file is created on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path, lock: fileLock(path)}
}

// Path returns the state file path.
func (s *FileStorage) Path() string {
	return s.path
}

// GetItem returns the value stored under key.
func (s *FileStorage) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closed {
		return "", false, ErrStorageClosed
	}
	st, err := s.load()
	if err != nil {
		return "", false, err
	}
	item, ok := st.Items[key]
	return item.Value, ok, nil
}

// SetItem stores value under key and stamps a new revision.
func (s *FileStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	st, err := s.load()
	if err != nil {
		return err
	}

	now := time.Now()
	rev, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate revision: %w", err)
	}
	st.Items[key] = fileItem{
		Value:     value,
		UpdatedAt: now.Unix(),
		Revision:  rev.String(),
	}
	return s.save(st)
}

// RemoveItem deletes key.
func (s *FileStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	st, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := st.Items[key]; !ok {
		return nil
	}
	delete(st.Items, key)
	return s.save(st)
}

// UpdatedAt returns when key was last written.
func (s *FileStorage) UpdatedAt(key string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.lock.RLock()
	defer s.lock.RUnlock()

	st, err := s.load()
	if err != nil {
		return time.Time{}, false, err
	}
	item, ok := st.Items[key]
	if !ok || item.UpdatedAt == 0 {
		return time.Time{}, false, nil
	}
	return time.Unix(item.UpdatedAt, 0), true, nil
}

// Revision returns the revision of key, or "" when it is not stored.
func (s *FileStorage) Revision(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.lock.RLock()
	defer s.lock.RUnlock()

	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.Items[key].Revision, nil
}

// Close marks the storage closed.
func (s *FileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// load reads the state file. A missing or corrupted file yields an empty state.
func (s *FileStorage) load() (*fileState, error) {
	st := &fileState{
		SchemaVersion: CurrentSchemaVersion,
		Items:         make(map[string]fileItem),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var onDisk fileState
	if err := json.Unmarshal(data, &onDisk); err != nil {
		// Corrupted file, start over
		return st, nil
	}
	if onDisk.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
			onDisk.SchemaVersion, CurrentSchemaVersion)
	}
	for k, v := range onDisk.Items {
		st.Items[k] = v
	}
	return st, nil
}

// save writes the state atomically via a temp file.
func (s *FileStorage) save(st *fileState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	st.SchemaVersion = CurrentSchemaVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
