package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/brandkit/internal/theme"
)

func newManager(t *testing.T) *theme.Manager {
	t.Helper()
	m := theme.NewManager(nil, theme.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	m.ConfigureTheme(theme.ConfigInput{
		Modes: []theme.Mode{{Value: "light"}, {Value: "dark"}, {Value: "sepia"}},
	})
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SelectAppliesMode(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr)
	defer m.Close()

	assert.Equal(t, "light", m.Current())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "sepia", mgr.ThemeMode())
	assert.Equal(t, "sepia", m.Current())
	assert.Contains(t, m.View(), "● sepia")
}

func TestModel_CursorStaysInBounds(t *testing.T) {
	m := New(newManager(t))
	defer m.Close()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 5; i++ {
		m = press(t, m, runes("j"))
	}
	assert.Equal(t, 2, m.cursor)
}

func TestModel_ToggleCyclesModes(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr)
	defer m.Close()

	m = press(t, m, runes("t"))
	assert.Equal(t, "dark", mgr.ThemeMode())
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, runes("t"))
	m = press(t, m, runes("t"))
	assert.Equal(t, "light", mgr.ThemeMode())
	assert.Equal(t, 0, m.cursor)
}

func TestModel_FollowsExternalChanges(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr)
	defer m.Close()

	mgr.SetThemeMode("dark")

	msg := m.watchForChanges()
	require.IsType(t, changeMsg{}, msg)

	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, "dark", m.Current())
	assert.Equal(t, 1, m.cursor)
}

func TestModel_ReportsRestoredMode(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr)
	defer m.Close()

	next, _ := m.Update(changeMsg{Mode: "dark", Source: theme.SourcePersistence})
	m = next.(Model)
	assert.Contains(t, m.View(), `restored "dark" from storage`)
}

func TestModel_CloseUnsubscribes(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr)
	m.Close()

	mgr.SetThemeMode("dark")
	select {
	case <-m.changes:
		t.Fatal("closed picker still receives changes")
	default:
	}
}

func TestModel_CloseReleasesPendingWatch(t *testing.T) {
	m := New(newManager(t))

	got := make(chan tea.Msg, 1)
	go func() { got <- m.watchForChanges() }()

	m.Close()
	m.Close()

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("watchForChanges still blocked after Close")
	}
}

func TestModel_Quit(t *testing.T) {
	m := New(newManager(t))
	defer m.Close()

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	m := New(newManager(t))
	defer m.Close()

	short := m.View()
	m = press(t, m, runes("?"))
	assert.NotEqual(t, short, m.View())
	assert.Contains(t, m.View(), "next mode")
}
