// Package tui is the terminal frontend: a Bubble Tea program that ticks the
// engine at 60 Hz and draws the floor as a grid of glyphs with lipgloss.
package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/engine/input"
	"github.com/nathoo/antidote/engine/state"
	"github.com/nathoo/antidote/types"
)

const (
	logHeight = 8
	logLines  = 200
)

// Model is the Bubble Tea model wrapping one game.
type Model struct {
	game    *engine.Game
	log     *slog.Logger
	keys    keyMap
	help    help.Model
	logView viewport.Model
	history *History

	pending []input.Event

	width    int
	height   int
	ready    bool
	quitting bool
	err      error
}

// tickMsg drives one engine frame.
type tickMsg time.Time

// New creates a TUI model wired to the given game.
func New(g *engine.Game, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	return Model{
		game:    g,
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		history: NewHistory(logLines),
	}
}

// Run starts the Bubble Tea program and returns the first frame error, if
// any, once the program exits.
func Run(g *engine.Game, log *slog.Logger) error {
	p := tea.NewProgram(New(g, log), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.err
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/engine.TPS, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update queues key presses and runs a frame on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.logView = viewport.New(panelWidth+2, logHeight)
			m.logView.KeyMap = logKeyMap()
			m.ready = true
		}
		m.refreshLog()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case msg.String() == "?":
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case msg.String() == "pgup", msg.String() == "pgdown":
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}
		if k, ok := m.keys.toInput(msg); ok {
			m.pending = append(m.pending, input.Press(k))
		}

	case tickMsg:
		return m.frame()
	}
	return m, nil
}

// frame drains the queued keys into one engine frame.
func (m Model) frame() (tea.Model, tea.Cmd) {
	evs := m.pending
	m.pending = nil
	before := m.game.Mode()

	if err := m.game.SafeFrame(evs); err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	if before.Terminal() && m.game.Mode() == types.ModeIntro {
		m.history.Reset()
	}
	m.observe(m.game.Progress.Messages())
	return m, tick()
}

func (m *Model) observe(msgs []state.Message) {
	n := len(m.history.Lines())
	m.history.Observe(msgs)
	if len(m.history.Lines()) != n {
		m.refreshLog()
	}
}

// refreshLog re-styles the history into the log viewport.
func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	lines := m.history.Lines()
	styled := make([]string, 0, len(lines))
	for _, l := range lines {
		styled = append(styled, renderLine(l))
	}
	m.logView.SetContent(strings.Join(styled, "\n"))
	m.logView.GotoBottom()
}

// View renders the intro screen, or the floor grid with the side panels,
// the status bar and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	g := m.game
	if g.Mode() == types.ModeIntro {
		return introView(g, m.width) + "\n" + m.help.View(m.keys)
	}

	side := []string{hudPanel(g)}
	if p := modePanel(g); p != "" {
		side = append(side, p)
	}
	if g.Debug() {
		side = append(side, debugPanel(g))
	}
	side = append(side, stylePanel.Width(panelWidth).Render(m.logView.View()))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		buildGrid(g).render(), " ", lipgloss.JoinVertical(lipgloss.Left, side...))
	return body + "\n" + m.renderStatusBar() + "\n" + m.help.View(m.keys)
}
