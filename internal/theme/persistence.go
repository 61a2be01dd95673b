package theme

// DefaultStorageKey is used when persistence is enabled without a key.
const DefaultStorageKey = "brandkit-theme"

// Storage is the key/value capability the manager persists modes through.
// The manager never touches storage any other way.
type Storage interface {
	// GetItem returns the stored value and whether one exists.
	GetItem(key string) (string, bool, error)

	// SetItem stores value under key.
	SetItem(key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(key string) error
}

// PersistenceInput configures the persistence binding.
type PersistenceInput struct {
	Enabled    bool
	StorageKey string
	Storage    Storage
}

// PersistenceState is the externally visible persistence binding.
type PersistenceState struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Key     string `json:"key" yaml:"key"`
}

// binding is the active persistence binding.
type binding struct {
	enabled bool
	key     string
	storage Storage
}

func (b *binding) state() PersistenceState {
	if b == nil {
		return PersistenceState{}
	}
	return PersistenceState{Enabled: b.enabled, Key: b.key}
}

// writable reports whether mode changes should be written through.
func (b *binding) writable() bool {
	return b != nil && b.enabled && b.storage != nil
}
