package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"twinclash/internal/game"
)

// Model is the Bubble Tea model for playing a campaign.
type Model struct {
	campaign *game.Campaign
	keys     KeyMap
	help     help.Model
	logger   *log.Logger
	interval time.Duration
	cursor   int
	width    int
	height   int
	lastErr  error
	quitting bool
}

// NewModel wraps a campaign. interval is both the tick period and the game
// time each tick advances.
func NewModel(c *game.Campaign, interval time.Duration, logger *log.Logger) Model {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Model{
		campaign: c,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		logger:   logger,
		interval: interval,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) current() *game.Game {
	if m.campaign == nil || m.campaign.IsFinished() {
		return nil
	}
	return m.campaign.CurrentGame
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if g := m.current(); g != nil && !g.Done() {
		g.HandleTick(m.interval)
		m.sync()
	}
	return m, tickCmd(m.interval)
}

// sync records finished attempts and keeps the cursor on the board.
func (m *Model) sync() {
	index := m.campaign.CurrentIndex
	if err := m.campaign.Update(); err != nil {
		m.lastErr = err
		m.logger.Error("cannot record outcome", "error", err)
	}
	if m.campaign.CurrentIndex != index {
		m.cursor = 0
	}
	if g := m.current(); g != nil {
		m.cursor = min(m.cursor, g.State.Board.Len()-1)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if g := m.current(); g != nil && g.Abandon() {
			m.sync()
		}
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	g := m.current()
	if g == nil {
		return m, nil
	}
	b := g.State.Board

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor-b.Cols >= 0 {
			m.cursor -= b.Cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+b.Cols < b.Len() {
			m.cursor += b.Cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor%b.Cols > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor%b.Cols < b.Cols-1 && m.cursor+1 < b.Len() {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Flip):
		g.HandleFlip(b.Cards[m.cursor].ID)
		m.sync()
	case key.Matches(msg, m.keys.Freeze):
		g.UseFreeze()
	case key.Matches(msg, m.keys.Reveal):
		g.UseReveal(0)
		m.sync()
	case key.Matches(msg, m.keys.Restart):
		if err := m.campaign.Retry(); err != nil {
			m.lastErr = err
		}
		m.cursor = 0
	}
	return m, nil
}

// IsQuitting returns true if the user asked to leave.
func (m Model) IsQuitting() bool {
	return m.quitting
}

func (m Model) Cursor() int {
	return m.cursor
}
