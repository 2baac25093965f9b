package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

type cellStyle int

const (
	styleDesk cellStyle = iota
	styleContent
	styleFrame
	styleFrameHot
	styleToolbar
	styleToolbarHot
	styleResizer
)

var (
	deskStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	contentStyle    = lipgloss.NewStyle().Background(lipgloss.Color("235"))
	frameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	frameHotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	toolbarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	toolbarHotStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	resizerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

func (s cellStyle) style() lipgloss.Style {
	switch s {
	case styleContent:
		return contentStyle
	case styleFrame:
		return frameStyle
	case styleFrameHot:
		return frameHotStyle
	case styleToolbar:
		return toolbarStyle
	case styleToolbarHot:
		return toolbarHotStyle
	case styleResizer:
		return resizerStyle
	default:
		return deskStyle
	}
}

const resizerGlyph = '◢'

type cell struct {
	r rune
	s cellStyle
}

// canvas is a fixed-size grid of styled runes. Writes outside the grid are
// clipped.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int) *canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &canvas{width: width, height: height, cells: make([]cell, width*height)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', s: styleDesk}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, s: s}
}

func (c *canvas) at(x, y int) cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return cell{}
	}
	return c.cells[y*c.width+x]
}

func (c *canvas) fill(r geometry.Rect, ch rune, s cellStyle) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			c.set(x, y, ch, s)
		}
	}
}

func (c *canvas) text(x, y, limit int, s string, st cellStyle) {
	i := 0
	for _, r := range s {
		if i >= limit {
			return
		}
		c.set(x+i, y, r, st)
		i++
	}
}

// paint draws one window. Content is always drawn; border, toolbar and
// resizer only while the chrome is shown.
func (c *canvas) paint(s window.Snapshot, title string) {
	c.fill(s.Content, ' ', styleContent)
	if !s.ChromeVisible() {
		return
	}

	frame, bar := styleFrame, styleToolbar
	if s.Highlighted {
		frame, bar = styleFrameHot, styleToolbarHot
	}

	if b := s.Border; b > 0 {
		e := s.Extent
		border := lipgloss.RoundedBorder()
		right, bottom := e.X+e.Width-1, e.Y+e.Height-1
		for x := e.X + 1; x < right; x++ {
			c.set(x, e.Y, firstRune(border.Top), frame)
			c.set(x, bottom, firstRune(border.Bottom), frame)
		}
		for y := e.Y + 1; y < bottom; y++ {
			c.set(e.X, y, firstRune(border.Left), frame)
			c.set(right, y, firstRune(border.Right), frame)
		}
		c.set(e.X, e.Y, firstRune(border.TopLeft), frame)
		c.set(right, e.Y, firstRune(border.TopRight), frame)
		c.set(e.X, bottom, firstRune(border.BottomLeft), frame)
		c.set(right, bottom, firstRune(border.BottomRight), frame)
	}

	c.fill(s.Toolbar, ' ', bar)
	c.text(s.Toolbar.X+1, s.Toolbar.Y, s.Toolbar.Width-2, title, bar)

	c.set(s.Resizer.X, s.Resizer.Y, resizerGlyph, styleResizer)
}

// String renders the grid, one line per row, merging runs of equal style.
func (c *canvas) String() string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		cur := styleDesk
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(cur.style().Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if cl.s != cur {
				flush()
				cur = cl.s
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
