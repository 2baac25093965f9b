package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

// newTestModel opens one window "notes" whose frame spans columns 2..33 and
// rows 2..10 of an 80x24 terminal. The toolbar is row 3, the resizer glyph
// sits at (33,10).
func newTestModel(t *testing.T, opts window.Options) (model, *desktop.Desktop) {
	t.Helper()
	desk := desktop.New(geometry.Bounds{Width: 80, Height: 22}, nil, nil)
	if _, err := Open(desk, "notes", opts, geometry.Position{X: 16, Y: 32}, geometry.Size{Width: 240, Height: 96}); err != nil {
		t.Fatalf("open: %v", err)
	}
	m := newModel(desk, map[string]string{"notes": "Notes"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(model), desk
}

func mouse(m model, action tea.MouseAction, x, y int) model {
	next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: action})
	return next.(model)
}

func TestModel_WindowSizeSetsViewport(t *testing.T) {
	_, desk := newTestModel(t, window.DefaultOptions())
	if vp := desk.Viewport(); vp.Width != 80 || vp.Height != 22 {
		t.Fatalf("expected viewport 80x22, got %dx%d", vp.Width, vp.Height)
	}
}

func TestModel_ToolbarDragMovesWindow(t *testing.T) {
	m, desk := newTestModel(t, window.DefaultOptions())

	m = mouse(m, tea.MouseActionPress, 10, 3)
	if s, _ := desk.Window("notes"); s.Mode != window.ModeMoving {
		t.Fatalf("expected moving, got %s", s.Mode)
	}
	m = mouse(m, tea.MouseActionMotion, 15, 5)
	m = mouse(m, tea.MouseActionRelease, 15, 5)

	s, _ := desk.Window("notes")
	if s.Position != (geometry.Position{X: 7, Y: 4}) {
		t.Fatalf("expected position (7,4), got %v", s.Position)
	}
	if s.Mode != window.ModeIdle {
		t.Fatalf("expected idle after release, got %s", s.Mode)
	}

	ev := <-m.events.C()
	next, cmd := m.Update(gestureMsg(ev))
	m = next.(model)
	if cmd == nil {
		t.Fatalf("expected the model to keep waiting for gestures")
	}
	if got := ansi.Strip(m.View()); !strings.Contains(got, "notes moved to 7,4") {
		t.Fatalf("expected status to report the move, got:\n%s", got)
	}
}

func TestModel_ResizerDragResizesWindow(t *testing.T) {
	m, desk := newTestModel(t, window.DefaultOptions())

	m = mouse(m, tea.MouseActionPress, 33, 10)
	m = mouse(m, tea.MouseActionMotion, 37, 12)
	_ = mouse(m, tea.MouseActionRelease, 37, 12)

	s, _ := desk.Window("notes")
	if s.Size != (geometry.Size{Width: 34, Height: 8}) {
		t.Fatalf("expected size 34x8, got %v", s.Size)
	}
}

func TestModel_RightButtonStartsNothing(t *testing.T) {
	m, desk := newTestModel(t, window.DefaultOptions())

	next, _ := m.Update(tea.MouseMsg{X: 10, Y: 3, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
	_ = next
	if s, _ := desk.Window("notes"); s.Mode != window.ModeIdle {
		t.Fatalf("expected idle, got %s", s.Mode)
	}
}

func TestModel_BlurHidesAutohideChrome(t *testing.T) {
	opts := window.DefaultOptions()
	opts.Autohide = true
	m, desk := newTestModel(t, opts)

	m = mouse(m, tea.MouseActionMotion, 10, 6)
	if s, _ := desk.Window("notes"); s.Visibility != window.Shown {
		t.Fatalf("expected chrome shown on hover, got %s", s.Visibility)
	}

	_, _ = m.Update(tea.BlurMsg{})
	if s, _ := desk.Window("notes"); s.Visibility != window.Hidden {
		t.Fatalf("expected chrome hidden after blur, got %s", s.Visibility)
	}
}

func TestModel_ViewPaintsChrome(t *testing.T) {
	m, _ := newTestModel(t, window.DefaultOptions())

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if len(lines) < 22 {
		t.Fatalf("expected at least 22 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[3], "Notes") {
		t.Fatalf("expected title on toolbar row, got %q", lines[3])
	}
	if r := []rune(lines[2]); r[2] != '╭' || r[33] != '╮' {
		t.Fatalf("expected frame corners on row 2, got %q", lines[2])
	}
	if r := []rune(lines[10]); r[33] != resizerGlyph {
		t.Fatalf("expected resizer glyph at (33,10), got %q", lines[10])
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newTestModel(t, window.DefaultOptions())

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("expected quit command for %q", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %q", k.String())
		}
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, window.DefaultOptions())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(model)
	if !m.help.ShowAll {
		t.Fatalf("expected full help after ?")
	}
	if got := ansi.Strip(m.View()); !strings.Contains(got, "resize window") {
		t.Fatalf("expected full help to mention resizing, got:\n%s", got)
	}
}
