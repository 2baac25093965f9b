// Package desktop hosts a set of independent windows on one surface and fans
// a single global pointer stream out to all of them.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

// Renderer paints window snapshots. It is called with the desktop lock held
// and must not call back into the Desktop.
type Renderer interface {
	Render(s window.Snapshot)
	Forget(id string)
}

// surface is the live viewport shared by every window on the desktop. It has
// its own lock because windows read it while the desktop lock is held.
type surface struct {
	mu sync.RWMutex
	b  geometry.Bounds
}

func (s *surface) Bounds() geometry.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.b
}

func (s *surface) set(b geometry.Bounds) {
	s.mu.Lock()
	s.b = b
	s.mu.Unlock()
}

type entry struct {
	win     *window.Window
	hovered bool
	last    window.Snapshot
}

// Desktop is safe for concurrent use. Every call is applied to the windows
// synchronously and atomically.
type Desktop struct {
	mu       sync.Mutex
	surface  *surface
	stack    []*entry // bottom to top
	byID     map[string]*entry
	pointer  geometry.Position
	renderer Renderer
	logger   *slog.Logger

	observers []window.Observer
}

// New creates an empty desktop. renderer and logger may be nil.
func New(viewport geometry.Bounds, renderer Renderer, logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Desktop{
		surface:  &surface{b: viewport},
		byID:     make(map[string]*entry),
		renderer: renderer,
		logger:   logger,
	}
}

// Subscribe registers o for completed gestures of every window, including
// windows opened later. Observers run with the desktop lock held.
func (d *Desktop) Subscribe(o window.Observer) {
	if o == nil {
		return
	}
	d.mu.Lock()
	d.observers = append(d.observers, o)
	d.mu.Unlock()
}

// notify forwards a window event to desktop observers. It is installed on
// every window, so it always runs under d.mu.
func (d *Desktop) notify(ev window.Event) {
	d.logger.Info("gesture complete",
		"window", ev.WindowID,
		"kind", ev.Kind,
		"x", ev.Position.X, "y", ev.Position.Y,
		"width", ev.Size.Width, "height", ev.Size.Height)
	for _, o := range d.observers {
		o.Notify(ev)
	}
}

// Open constructs a window bound to this desktop's viewport and places it on
// top of the stack.
func (d *Desktop) Open(id string, opts window.Options, pos geometry.Position, size geometry.Size) (window.Snapshot, error) {
	if id == "" {
		return window.Snapshot{}, fmt.Errorf("window id is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byID[id]; exists {
		return window.Snapshot{}, fmt.Errorf("window %q already exists", id)
	}
	w, err := window.New(id, opts, pos, size, d.surface)
	if err != nil {
		return window.Snapshot{}, err
	}
	w.Subscribe(window.ObserverFunc(d.notify))

	e := &entry{win: w}
	d.stack = append(d.stack, e)
	d.byID[id] = e
	d.logger.Debug("window opened", "window", id, "position", w.Position(), "size", w.Size())

	d.renderLocked()
	return e.last, nil
}

// Close removes a window. It reports whether the window existed.
func (d *Desktop) Close(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok {
		return false
	}
	delete(d.byID, id)
	for i, s := range d.stack {
		if s == e {
			d.stack = append(d.stack[:i], d.stack[i+1:]...)
			break
		}
	}
	if d.renderer != nil {
		d.renderer.Forget(id)
	}
	d.logger.Debug("window closed", "window", id)
	return true
}

// Viewport returns the current surface bounds.
func (d *Desktop) Viewport() geometry.Bounds {
	return d.surface.Bounds()
}

// SetViewport changes the surface bounds and re-bounds every window.
func (d *Desktop) SetViewport(b geometry.Bounds) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.surface.set(b)
	for _, e := range d.stack {
		e.win.Rebound()
	}
	d.logger.Debug("viewport changed", "width", b.Width, "height", b.Height)
	d.renderLocked()
}

// Windows returns snapshots in stacking order, bottom first.
func (d *Desktop) Windows() []window.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]window.Snapshot, 0, len(d.stack))
	for _, e := range d.stack {
		out = append(out, e.win.Snapshot())
	}
	return out
}

// IDs returns the window ids sorted by name.
func (d *Desktop) IDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]string, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Window returns the snapshot of one window.
func (d *Desktop) Window(id string) (window.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok {
		return window.Snapshot{}, false
	}
	return e.win.Snapshot(), true
}

// Press routes a press at p to the topmost window under it. The desktop has
// a single pointer, so any gesture still running (its release was lost) is
// cancelled first. Presses over a window's content or outside every window
// start nothing. The returned id is empty when no gesture started.
func (d *Desktop) Press(p geometry.Position) (string, window.Zone, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.renderLocked()

	d.pointer = p
	d.updateHoverLocked()
	for _, e := range d.stack {
		if e.win.Mode() != window.ModeIdle {
			d.logger.Debug("gesture cancelled", "window", e.win.ID(), "mode", e.win.Mode())
			e.win.Cancel()
		}
	}

	for i := len(d.stack) - 1; i >= 0; i-- {
		e := d.stack[i]
		if !e.win.Contains(p) {
			continue
		}
		zone := e.win.ZoneAt(p)
		if zone == window.ZoneNone {
			return "", zone, nil
		}
		if err := e.win.HandlePress(zone, p); err != nil {
			return "", zone, err
		}
		d.logger.Debug("gesture started", "window", e.win.ID(), "zone", zone, "x", p.X, "y", p.Y)
		return e.win.ID(), zone, nil
	}
	return "", window.ZoneNone, nil
}

// Move broadcasts a pointer move to every window, then updates hover state.
func (d *Desktop) Move(p geometry.Position) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pointer = p
	var errs []error
	for _, e := range d.stack {
		if err := e.win.HandlePointerMove(p); err != nil {
			errs = append(errs, fmt.Errorf("window %s: %w", e.win.ID(), err))
		}
	}
	d.updateHoverLocked()
	d.renderLocked()
	return errors.Join(errs...)
}

// Release broadcasts a pointer release. Windows the pointer already left
// during their gesture receive a fresh leave so autohide can apply.
func (d *Desktop) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.stack {
		e.win.HandlePointerRelease()
	}
	for _, e := range d.stack {
		if !e.hovered {
			e.win.HandleHoverLeave()
		}
	}
	d.updateHoverLocked()
	d.renderLocked()
}

// Leave reports that the pointer left the surface entirely.
func (d *Desktop) Leave() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.stack {
		if e.hovered {
			e.hovered = false
			e.win.HandleHoverLeave()
		}
	}
	d.renderLocked()
}

// Drag runs a complete synthetic gesture on one window: a press in the
// centre of zone, a single pointer move by (dx, dy), and a release. Other
// windows are not involved.
func (d *Desktop) Drag(id string, zone window.Zone, dx, dy int) (window.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok {
		return window.Snapshot{}, fmt.Errorf("window %q not found", id)
	}

	var r geometry.Rect
	switch zone {
	case window.ZoneToolbar:
		r = e.win.ToolbarRect()
	case window.ZoneResizer:
		r = e.win.ResizerRect()
	}
	start := geometry.Position{X: r.X + r.Width/2, Y: r.Y + r.Height/2}

	if err := e.win.HandlePress(zone, start); err != nil {
		return window.Snapshot{}, err
	}
	if err := e.win.HandlePointerMove(geometry.Position{X: start.X + dx, Y: start.Y + dy}); err != nil {
		return window.Snapshot{}, err
	}
	e.win.HandlePointerRelease()

	d.renderLocked()
	return e.win.Snapshot(), nil
}

func (d *Desktop) updateHoverLocked() {
	for _, e := range d.stack {
		inside := e.win.Contains(d.pointer)
		switch {
		case inside && !e.hovered:
			e.hovered = true
			e.win.HandleHoverEnter()
		case !inside && e.hovered:
			e.hovered = false
			e.win.HandleHoverLeave()
		}
	}
}

func (d *Desktop) renderLocked() {
	for _, e := range d.stack {
		s := e.win.Snapshot()
		if s == e.last {
			continue
		}
		e.last = s
		if d.renderer != nil {
			d.renderer.Render(s)
		}
	}
}
