// Package tui provides the terminal user interface for mapletide.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veylen/mapletide/internal/engine"
)

const maxEventLines = 200

// Controller is the slice of the engine the TUI drives.
type Controller interface {
	SetHalting(halting bool)
}

// Model is the main TUI model.
type Model struct {
	controller Controller
	eventCh    <-chan engine.Event

	width  int
	height int
	ready  bool

	halting     bool
	playerState string
	playerX     int
	playerY     int
	minimap     string
	lastAction  string

	events   []string
	viewport viewport.Model

	err error
}

// EventMsg wraps an engine event for the TUI.
type EventMsg struct {
	Event engine.Event
}

// New creates a new TUI model. halting is the engine's starting state so the
// status line is right before the first halting_changed event arrives.
func New(controller Controller, eventCh <-chan engine.Event, halting bool) Model {
	return Model{
		controller:  controller,
		eventCh:     eventCh,
		halting:     halting,
		playerState: "detecting",
		minimap:     "detecting",
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - 9
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width - 4
			m.viewport.Height = logHeight
		}
		m.viewport.SetContent(strings.Join(m.events, "\n"))
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Toggle):
			m.controller.SetHalting(!m.halting)

		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down),
			key.Matches(msg, keys.PageUp), key.Matches(msg, keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, m.listenForEvents()
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("MAPLETIDE"))
	b.WriteString("\n")

	status := runningStyle.Render("RUNNING")
	if m.halting {
		status = haltedStyle.Render("HALTED")
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("engine:"), status,
		labelStyle.Render("player:"), valueStyle.Render(m.playerState),
		labelStyle.Render("minimap:"), valueStyle.Render(m.minimap),
	))
	b.WriteString(fmt.Sprintf("%s (%d, %d)   %s %s\n",
		labelStyle.Render("pos:"), m.playerX, m.playerY,
		labelStyle.Render("last action:"), valueStyle.Render(m.lastAction),
	))

	b.WriteString(renderSectionTitle("EVENTS", m.width-2))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(panelStyle.Render(m.viewport.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space: halt/resume · ↑/↓: scroll · q: quit"))

	return b.String()
}

func (m *Model) handleEvent(event engine.Event) {
	switch event.Type {
	case engine.EventHaltingChanged:
		if halting, ok := event.Payload.(bool); ok {
			m.halting = halting
		}

	case engine.EventPlayerStateChanged:
		if p, ok := event.Payload.(engine.PlayerStatePayload); ok {
			m.playerState = p.State
			m.playerX = p.X
			m.playerY = p.Y
		}

	case engine.EventMinimapChanged:
		if p, ok := event.Payload.(engine.MinimapPayload); ok {
			m.minimap = p.State
		}

	case engine.EventActionQueued, engine.EventActionCompleted:
		if p, ok := event.Payload.(engine.ActionPayload); ok {
			m.lastAction = p.Action
		}
	}

	m.appendEventLine(event)
}

func (m *Model) appendEventLine(event engine.Event) {
	line := fmt.Sprintf("%s %s %s",
		eventTimeStyle.Render(event.Timestamp.Local().Format("15:04:05")),
		eventTypeStyle.Render(string(event.Type)),
		formatPayload(event.Payload),
	)

	m.events = append(m.events, line)
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}

	if m.ready {
		atBottom := m.viewport.AtBottom()
		m.viewport.SetContent(strings.Join(m.events, "\n"))
		if atBottom {
			m.viewport.GotoBottom()
		}
	}
}

func formatPayload(payload any) string {
	switch p := payload.(type) {
	case nil:
		return ""
	case bool:
		return fmt.Sprintf("%v", p)
	case engine.PlayerStatePayload:
		return fmt.Sprintf("%s (%d, %d)", p.State, p.X, p.Y)
	case engine.MinimapPayload:
		return fmt.Sprintf("%s %dx%d", p.State, p.W, p.H)
	case engine.ActionPayload:
		if p.Priority {
			return p.Action + " [priority]"
		}
		return p.Action
	default:
		return fmt.Sprintf("%v", p)
	}
}

func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventCh
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// Key bindings
var keys = struct {
	Quit     key.Binding
	Toggle   key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Toggle:   key.NewBinding(key.WithKeys(" ")),
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
}
