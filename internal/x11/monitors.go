package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/dextop/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	Name string
	Rect geometry.Rect
}

// Monitors retrieves all active monitors using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			Name: name,
			Rect: geometry.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
		})
	}
	return monitors, nil
}

// WorkArea returns the usable part of the monitor under the pointer: the
// monitor minus dock struts, or minus the EWMH work area when no dock
// publishes struts. Without RandR the root window is used.
func (c *Connection) WorkArea() (geometry.Rect, error) {
	root, err := c.rootRect()
	if err != nil {
		return geometry.Rect{}, err
	}

	monitors, err := c.Monitors()
	if err != nil || len(monitors) == 0 {
		return root, nil
	}

	mon := monitors[0].Rect
	if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		at := geometry.Position{X: int(p.RootX), Y: int(p.RootY)}
		for _, m := range monitors {
			if m.Rect.Contains(at) {
				mon = m.Rect
				break
			}
		}
	}

	if area, ok := c.subtractDocks(mon, root); ok {
		return area, nil
	}
	if wa, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(wa) > 0 {
		idx := 0
		if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(wa) {
			idx = int(cur)
		}
		w := wa[idx]
		if isect := intersect(mon, geometry.Rect{X: w.X, Y: w.Y, Width: int(w.Width), Height: int(w.Height)}); isect.Width > 0 {
			return isect, nil
		}
	}
	return mon, nil
}

func (c *Connection) rootRect() (geometry.Rect, error) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to query root geometry: %w", err)
	}
	return geometry.Rect{Width: int(g.Width), Height: int(g.Height)}, nil
}

// insets is how much docks take from each side of a monitor.
type insets struct {
	left, right, top, bottom int
}

func (in insets) zero() bool {
	return in.left == 0 && in.right == 0 && in.top == 0 && in.bottom == 0
}

func (in insets) apply(r geometry.Rect) geometry.Rect {
	r.X += in.left
	r.Y += in.top
	r.Width = max(r.Width-in.left-in.right, 1)
	r.Height = max(r.Height-in.top-in.bottom, 1)
	return r
}

func (c *Connection) subtractDocks(mon, root geometry.Rect) (geometry.Rect, bool) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return mon, false
	}

	var acc insets
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !hasType(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			acc = accumulateStrut(acc, mon, root, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			acc = accumulateStrut(acc, mon, root, fullStrut(s, root))
		}
	}

	if acc.zero() {
		return mon, false
	}
	return acc.apply(mon), true
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func fullStrut(s *ewmh.WmStrut, root geometry.Rect) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(root.Height - 1),
		RightEndY:  uint(root.Height - 1),
		TopEndX:    uint(root.Width - 1),
		BottomEndX: uint(root.Width - 1),
	}
}

// accumulateStrut widens acc by the part of sp's reserved edges that
// overlaps mon. Struts are expressed against the root window.
func accumulateStrut(acc insets, mon, root geometry.Rect, sp ewmh.WmStrutPartial) insets {
	if sp.Top > 0 {
		r := intersect(mon, geometry.Rect{X: int(sp.TopStartX), Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)})
		acc.top = max(acc.top, r.Height)
	}
	if sp.Bottom > 0 {
		r := intersect(mon, geometry.Rect{
			X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom),
			Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom),
		})
		acc.bottom = max(acc.bottom, r.Height)
	}
	if sp.Left > 0 {
		r := intersect(mon, geometry.Rect{Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1})
		acc.left = max(acc.left, r.Width)
	}
	if sp.Right > 0 {
		r := intersect(mon, geometry.Rect{
			X: root.Width - int(sp.Right), Y: int(sp.RightStartY),
			Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		})
		acc.right = max(acc.right, r.Width)
	}
	return acc
}

func intersect(a, b geometry.Rect) geometry.Rect {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
