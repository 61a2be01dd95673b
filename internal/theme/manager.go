package theme

import (
	"fmt"
	"log/slog"
	"sync"
)

// Source identifies what caused a mode change.
type Source string

const (
	// SourceExternal marks changes requested by a caller (elements, CLI, reconfiguration).
	SourceExternal Source = "external"
	// SourcePersistence marks modes adopted from storage.
	SourcePersistence Source = "persistence"
)

// Change is delivered to subscribers on every effective mode change.
type Change struct {
	Mode   string `json:"mode"`
	Source Source `json:"source"`
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// Manager owns the theme state for one UI context. It is safe for concurrent
// use; subscribers are invoked after the internal lock is released, so they
// may call back into the manager.
type Manager struct {
	mu     sync.Mutex
	logger *slog.Logger

	resolver TargetResolver
	cfg      Config

	// Target cache, rebuilt wholesale on reconfiguration.
	targets  []Element
	resolved bool

	// Empty until first queried, set, or restored.
	current string

	persist  *binding
	restored bool

	subs   []subscriber
	nextID uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for storage failures and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager bound to the built-in configuration.
// A nil resolver is valid; mode changes then have no DOM effect.
func NewManager(resolver TargetResolver, opts ...Option) *Manager {
	m := &Manager{
		logger:   slog.Default(),
		resolver: resolver,
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetTargetResolver swaps the document targets are resolved against. The
// cache is dropped and rebuilt on next use.
func (m *Manager) SetTargetResolver(resolver TargetResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolver = resolver
	m.targets = nil
	m.resolved = false
}

// ConfigureTheme replaces the active configuration with in merged over the
// built-in defaults and resolves targets once. When a current mode already
// exists it is re-normalised against the new modes and re-applied; subscribers
// are notified once if the visible mode or its definition changed.
func (m *Manager) ConfigureTheme(in ConfigInput) Config {
	m.mu.Lock()

	prevCfg := m.cfg
	prevTargets := m.targets
	prevResolved := m.resolved
	prevCurrent := m.current

	cfg := in.merge(DefaultConfig())
	m.cfg = cfg
	m.targets = resolveTargets(m.resolver, cfg.Targets)
	m.resolved = true

	m.logger.Debug("theme configured",
		"modes", cfg.Values(),
		"initial", cfg.InitialMode,
		"targets", len(m.targets))

	var change *Change
	if prevCurrent != "" {
		if prevResolved {
			stripMarkers(prevTargets, prevCfg)
		}

		next := cfg.ResolveMode(prevCurrent)
		m.current = next
		mode, _ := cfg.Lookup(next)
		applyMode(m.targets, cfg, mode)

		prevMode, _ := prevCfg.Lookup(prevCurrent)
		if next != prevCurrent || !mode.Equal(prevMode) || cfg.Attribute != prevCfg.Attribute {
			change = &Change{Mode: next, Source: SourceExternal}
		}
	}

	out := cfg.Clone()
	subs := m.snapshotLocked()
	m.mu.Unlock()

	if change != nil {
		m.dispatch(subs, *change)
	}
	return out
}

// ThemeConfig returns a copy of the active configuration.
func (m *Manager) ThemeConfig() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Clone()
}

// ThemeMode returns the current mode, initialising it from the configured
// initial mode on first use.
func (m *Manager) ThemeMode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

// SetThemeMode makes requested the current mode when it is configured;
// otherwise the current mode is kept and re-applied. Either way the result is
// applied to every cached target, persisted if enabled, and announced to
// subscribers exactly once. The resulting mode is returned so callers can
// detect a rejected request.
func (m *Manager) SetThemeMode(requested string) string {
	m.mu.Lock()
	next := m.setLocked(requested)
	subs := m.snapshotLocked()
	m.mu.Unlock()

	m.dispatch(subs, Change{Mode: next, Source: SourceExternal})
	return next
}

// ToggleThemeMode advances to the next configured mode, wrapping around.
func (m *Manager) ToggleThemeMode() string {
	m.mu.Lock()
	next := m.setLocked(m.cfg.Next(m.currentLocked()))
	subs := m.snapshotLocked()
	m.mu.Unlock()

	m.dispatch(subs, Change{Mode: next, Source: SourceExternal})
	return next
}

// ConfigureThemePersistence replaces the persistence binding. When enabled and
// storage holds a configured mode, that mode is adopted and announced with
// SourcePersistence. Storage failures count as "nothing stored".
func (m *Manager) ConfigureThemePersistence(in PersistenceInput) PersistenceState {
	m.mu.Lock()

	key := in.StorageKey
	if key == "" {
		key = DefaultStorageKey
	}
	m.persist = &binding{enabled: in.Enabled, key: key, storage: in.Storage}
	m.restored = false

	var change *Change
	if m.persist.writable() {
		if stored, ok := m.readStoredLocked(); ok && m.cfg.Has(stored) {
			m.current = stored
			mode, _ := m.cfg.Lookup(stored)
			applyMode(m.targetsLocked(), m.cfg, mode)
			m.restored = true
			change = &Change{Mode: stored, Source: SourcePersistence}
			m.logger.Debug("theme restored from storage", "key", key, "mode", stored)
		} else if ok {
			m.logger.Debug("ignoring unknown stored theme", "key", key, "value", stored)
		}
	}

	state := m.persist.state()
	subs := m.snapshotLocked()
	m.mu.Unlock()

	if change != nil {
		m.dispatch(subs, *change)
	}
	return state
}

// ClearThemePersistence stops writing mode changes to storage and resets the
// restored flag. The current mode is left alone.
func (m *Manager) ClearThemePersistence() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.persist = nil
	m.restored = false
}

// ForgetStoredThemeMode deletes the stored mode under the active key.
func (m *Manager) ForgetStoredThemeMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.persist == nil || m.persist.storage == nil {
		return nil
	}
	if err := m.persist.storage.RemoveItem(m.persist.key); err != nil {
		return fmt.Errorf("remove stored theme %q: %w", m.persist.key, err)
	}
	return nil
}

// PersistenceState reports the active persistence binding.
func (m *Manager) PersistenceState() PersistenceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persist.state()
}

// WasThemeRestoredFromPersistence reports whether the most recent persistence
// configuration adopted a stored mode.
func (m *Manager) WasThemeRestoredFromPersistence() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restored
}

// OnThemeChange registers fn for every effective mode change. The returned
// function removes exactly this registration; calling it again does nothing.
//
// fn runs on the goroutine that made the change, after the manager's lock is
// released, so it may call back into the manager. Each call notifies exactly
// once, but changes made concurrently from several goroutines may reach fn in
// a different order than they were applied. Subscribers that need the
// settled mode should read ThemeMode rather than trust the last Change.
func (m *Manager) OnThemeChange(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.subs {
				if sub.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Manager) currentLocked() string {
	if m.current == "" {
		m.current = m.cfg.InitialMode
	}
	return m.current
}

func (m *Manager) targetsLocked() []Element {
	if !m.resolved {
		m.targets = resolveTargets(m.resolver, m.cfg.Targets)
		m.resolved = true
	}
	return m.targets
}

// setLocked is the shared path of SetThemeMode and ToggleThemeMode.
func (m *Manager) setLocked(requested string) string {
	next := m.currentLocked()
	if m.cfg.Has(requested) {
		next = requested
	} else {
		m.logger.Debug("rejected unknown theme mode", "requested", requested, "current", next)
	}
	m.current = next

	mode, _ := m.cfg.Lookup(next)
	applyMode(m.targetsLocked(), m.cfg, mode)
	m.writeStoredLocked(next)
	return next
}

func (m *Manager) readStoredLocked() (string, bool) {
	value, ok, err := m.persist.storage.GetItem(m.persist.key)
	if err != nil {
		m.logger.Warn("failed to read stored theme", "key", m.persist.key, "error", err)
		return "", false
	}
	return value, ok
}

func (m *Manager) writeStoredLocked(mode string) {
	if !m.persist.writable() {
		return
	}
	if err := m.persist.storage.SetItem(m.persist.key, mode); err != nil {
		m.logger.Warn("failed to persist theme", "key", m.persist.key, "mode", mode, "error", err)
	}
}

func (m *Manager) snapshotLocked() []subscriber {
	if len(m.subs) == 0 {
		return nil
	}
	return append([]subscriber(nil), m.subs...)
}

func (m *Manager) dispatch(subs []subscriber, change Change) {
	for _, sub := range subs {
		sub.fn(change)
	}
}
