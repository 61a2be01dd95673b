// Package tui provides the BubbleTea-based theme picker.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/brandkit/internal/theme"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// changeMsg carries a manager notification into the update loop.
type changeMsg theme.Change

// Model is the picker model.
type Model struct {
	manager *theme.Manager

	modes   []string
	cursor  int
	current string

	// Notifications from the manager, fed by OnThemeChange. done is closed
	// by Close and releases a pending watchForChanges.
	changes     chan theme.Change
	done        chan struct{}
	closeOnce   *sync.Once
	unsubscribe func()

	keys     KeyMap
	help     help.Model
	showHelp bool
	width    int

	statusMsg string
}

// New creates a picker for manager and subscribes to its changes. Call
// Close when the picker is no longer used.
func New(manager *theme.Manager) Model {
	m := Model{
		manager: manager,
		changes:   make(chan theme.Change, 16),
		done:      make(chan struct{}),
		closeOnce: &sync.Once{},
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}

	ch, done := m.changes, m.done
	m.unsubscribe = manager.OnThemeChange(func(c theme.Change) {
		select {
		case <-done:
		case ch <- c:
		default:
			// Picker is behind; the next message re-reads the manager anyway.
		}
	})

	m.refresh()
	return m
}

// Close unsubscribes from the manager and ends any pending wait for changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.closeOnce != nil {
		m.closeOnce.Do(func() { close(m.done) })
	}
}

// Init starts listening for manager notifications.
func (m Model) Init() tea.Cmd {
	return m.watchForChanges
}

// watchForChanges blocks until the manager reports a change or the picker
// is closed.
func (m Model) watchForChanges() tea.Msg {
	select {
	case c := <-m.changes:
		return changeMsg(c)
	case <-m.done:
		return nil
	}
}

// refresh re-reads the configured modes and the current mode.
func (m *Model) refresh() {
	m.modes = m.manager.ThemeConfig().Values()
	m.current = m.manager.ThemeMode()
	if i := slices.Index(m.modes, m.current); i >= 0 {
		m.cursor = i
	}
	if m.cursor >= len(m.modes) {
		m.cursor = max(len(m.modes)-1, 0)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case changeMsg:
		m.refresh()
		if msg.Source == theme.SourcePersistence {
			m.statusMsg = fmt.Sprintf("restored %q from storage", msg.Mode)
		}
		return m, m.watchForChanges
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.modes) == 0 {
			return m, nil
		}
		m.current = m.manager.SetThemeMode(m.modes[m.cursor])
		m.statusMsg = fmt.Sprintf("applied %q", m.current)

	case key.Matches(msg, m.keys.Toggle):
		m.current = m.manager.ToggleThemeMode()
		if i := slices.Index(m.modes, m.current); i >= 0 {
			m.cursor = i
		}
		m.statusMsg = fmt.Sprintf("applied %q", m.current)
	}

	return m, nil
}

// Current returns the mode the picker last saw applied.
func (m Model) Current() string {
	return m.current
}

// View renders the picker.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Theme"))
	b.WriteString("\n\n")

	if len(m.modes) == 0 {
		b.WriteString(dimStyle.Render("  no modes configured"))
		b.WriteString("\n")
	}

	for i, mode := range m.modes {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		label := mode
		if mode == m.current {
			label = activeStyle.Render("● " + mode)
		} else {
			label = "  " + label
		}
		b.WriteString(cursor + label + "\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(dimStyle.Render(m.statusMsg) + "\n")
	}
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// Run starts the picker and returns the mode active when it exits.
func Run(manager *theme.Manager) (string, error) {
	m := New(manager)
	defer m.Close()

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(Model); ok {
		return fm.Current(), nil
	}
	return manager.ThemeMode(), nil
}
