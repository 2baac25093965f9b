package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

// footerHeight is the number of rows below the desktop: status and help.
const footerHeight = 2

// gestureMsg carries a completed gesture from the desktop.
type gestureMsg window.Event

// model is the root bubbletea model. The desktop owns all window state; the
// model only translates terminal input and paints snapshots.
type model struct {
	desk   *desktop.Desktop
	titles map[string]string
	events *window.EventChannel

	help help.Model

	last    *window.Event
	lastErr error

	width  int
	height int
}

func newModel(desk *desktop.Desktop, titles map[string]string) model {
	events := window.NewEventChannel(16)
	desk.Subscribe(events)
	return model{
		desk:   desk,
		titles: titles,
		events: events,
		help:   help.New(),
	}
}

func waitForGesture(events *window.EventChannel) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events.C()
		if !ok {
			return nil
		}
		return gestureMsg(ev)
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return waitForGesture(m.events)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.desk.SetViewport(m.viewport())
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))
		return m, nil

	case tea.BlurMsg:
		// The terminal reports no pointer-leave; losing focus is the
		// closest signal.
		m.desk.Leave()
		return m, nil

	case gestureMsg:
		ev := window.Event(msg)
		m.last = &ev
		return m, waitForGesture(m.events)
	}
	return m, nil
}

func (m *model) handleMouse(ev tea.MouseEvent) {
	p := geometry.Position{X: ev.X, Y: ev.Y}
	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft {
			return
		}
		_, _, err := m.desk.Press(p)
		m.lastErr = err
	case tea.MouseActionMotion:
		m.lastErr = m.desk.Move(p)
	case tea.MouseActionRelease:
		m.desk.Release()
	}
}

func (m model) viewport() geometry.Bounds {
	return geometry.Bounds{Width: m.width, Height: max(m.height-footerHeight, 1)}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	vp := m.viewport()
	c := newCanvas(vp.Width, vp.Height)
	for _, s := range m.desk.Windows() {
		title := m.titles[s.ID]
		if title == "" {
			title = s.ID
		}
		c.paint(s, title)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		c.String(),
		m.renderStatusBar(),
		m.help.View(keys),
	)
}

func (m model) renderStatusBar() string {
	wins := m.desk.Windows()
	parts := []string{
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " dextop",
		fmt.Sprintf("%d windows", len(wins)),
	}
	for _, s := range wins {
		if s.Mode != window.ModeIdle {
			parts = append(parts, fmt.Sprintf("%s %s", s.ID, s.Mode))
		}
	}
	if m.last != nil {
		parts = append(parts, describeEvent(*m.last))
	}
	if m.lastErr != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.lastErr.Error()))
	}

	style := lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(1).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(strings.Join(parts, "  "))
}

func describeEvent(ev window.Event) string {
	switch ev.Kind {
	case window.EventMove:
		return fmt.Sprintf("last: %s moved to %d,%d", ev.WindowID, ev.Position.X, ev.Position.Y)
	case window.EventResize:
		return fmt.Sprintf("last: %s resized to %dx%d", ev.WindowID, ev.Size.Width, ev.Size.Height)
	default:
		return ""
	}
}
