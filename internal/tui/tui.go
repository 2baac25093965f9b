// Package tui hosts a desktop inside a terminal. Cells stand in for pixels:
// the toolbar is one row, the resizer sits on the frame's bottom-right corner,
// and mouse reporting drives the pointer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
)

// Run takes over the terminal until the user quits or ctx is cancelled.
// titles maps window ids to toolbar labels; missing entries show the id.
func Run(ctx context.Context, desk *desktop.Desktop, titles map[string]string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	// Size the surface before the first frame so windows opened from the
	// config are bounded against the real terminal.
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		desk.SetViewport(geometry.Bounds{Width: w, Height: max(h-footerHeight, 1)})
	}

	p := tea.NewProgram(newModel(desk, titles),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
