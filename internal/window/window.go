// Package window implements the interaction state machine of a floating,
// draggable, resizable window.
//
// A Window turns zone-classified presses and global pointer move/release
// events into bounded position and size changes, and reports each completed
// gesture to its observers. It owns no frame loop and performs no rendering;
// hosts read Snapshot after each call and paint it themselves.
//
// A Window is a single-threaded actor: callers must serialize calls to it.
package window

import (
	"fmt"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/pointer"
)

// Viewport supplies the bounds of the containing surface at the moment a
// position is bounded. geometry.Bounds satisfies it for fixed surfaces.
type Viewport interface {
	Bounds() geometry.Bounds
}

// Window is a floating window and its interaction state.
type Window struct {
	id       string
	opts     Options
	viewport Viewport

	position   geometry.Position
	size       geometry.Size
	mode       Mode
	visibility Visibility
	hovered    bool
	tracker    pointer.Tracker

	observers []Observer
}

// New constructs a window. The size is clamped to the configured minimums
// first, then the position is bounded against the viewport using that size.
func New(id string, opts Options, position geometry.Position, size geometry.Size, viewport Viewport) (*Window, error) {
	if viewport == nil {
		return nil, fmt.Errorf("window %s: viewport is required", id)
	}
	opts, err := opts.validate()
	if err != nil {
		return nil, fmt.Errorf("window %s: %w", id, err)
	}
	if err := validateSize(size); err != nil {
		return nil, fmt.Errorf("window %s: %w", id, err)
	}

	w := &Window{
		id:         id,
		opts:       opts,
		viewport:   viewport,
		visibility: Shown,
	}
	w.size = geometry.ClampSize(size, opts.MinWidth, opts.MinHeight)
	w.position = geometry.ClampPosition(position, w.size, viewport.Bounds())
	if opts.Autohide {
		w.visibility = Hidden
	}
	return w, nil
}

// ID returns the window identifier.
func (w *Window) ID() string { return w.id }

// Options returns the construction-time configuration with defaults applied.
func (w *Window) Options() Options { return w.opts }

// Position returns the current top-left offset.
func (w *Window) Position() geometry.Position { return w.position }

// Size returns the current content size.
func (w *Window) Size() geometry.Size { return w.size }

// Mode returns the active gesture.
func (w *Window) Mode() Mode { return w.mode }

// Visibility returns the autohide state. Always Shown unless autohide is on.
func (w *Window) Visibility() Visibility { return w.visibility }

// Subscribe registers o for completed-gesture events.
func (w *Window) Subscribe(o Observer) {
	if o == nil {
		return
	}
	w.observers = append(w.observers, o)
}

// HandlePress starts a gesture for a press on zone at p. A press during an
// active gesture cancels that gesture without emitting its event.
func (w *Window) HandlePress(zone Zone, p geometry.Position) error {
	mode, ok := zone.mode()
	if !ok {
		return &InvalidStateError{Op: "press", Mode: w.mode, Reason: fmt.Sprintf("zone %s cannot start a gesture", zone)}
	}
	w.tracker.Disarm()
	w.mode = mode
	w.tracker.Arm(p)
	return nil
}

// HandlePointerMove advances the active gesture to p. It is a no-op while
// idle, so a single global pointer stream can be fanned out to every window.
func (w *Window) HandlePointerMove(p geometry.Position) error {
	if w.mode == ModeIdle {
		return nil
	}

	d, err := w.tracker.Delta(p)
	if err != nil {
		return &InvalidStateError{Op: "pointer move", Mode: w.mode, Reason: "gesture has no anchor", Err: err}
	}

	switch w.mode {
	case ModeMoving:
		candidate := geometry.Position{X: w.position.X - d.DX, Y: w.position.Y - d.DY}
		w.position = geometry.ClampPosition(candidate, w.size, w.viewport.Bounds())
	case ModeResizing:
		candidate := geometry.Size{Width: w.size.Width - d.DX, Height: w.size.Height - d.DY}
		w.size = geometry.ClampSize(candidate, w.opts.MinWidth, w.opts.MinHeight)
	}

	w.tracker.Rearm(p)
	return nil
}

// HandlePointerRelease completes the active gesture and emits its event.
// It is a no-op while idle.
func (w *Window) HandlePointerRelease() {
	w.finishGesture()
}

// HandleHoverEnter records that the pointer entered the window's extent.
func (w *Window) HandleHoverEnter() {
	w.hovered = true
	if w.opts.Autohide {
		w.visibility = Shown
	}
}

// HandleHoverLeave records that the pointer left the window's extent. With
// autohide the chrome is hidden, unless a gesture is active: the window must
// not vanish from under a drag.
func (w *Window) HandleHoverLeave() {
	w.hovered = false
	if w.opts.StopOnLeave {
		w.finishGesture()
	}
	if w.opts.Autohide && w.mode == ModeIdle {
		w.visibility = Hidden
	}
}

// Cancel abandons the active gesture without emitting its event. Geometry
// keeps whatever the gesture reached. With autohide, a window the pointer is
// no longer over hides again.
func (w *Window) Cancel() {
	if w.mode == ModeIdle {
		return
	}
	w.tracker.Disarm()
	w.mode = ModeIdle
	if w.opts.Autohide && !w.hovered {
		w.visibility = Hidden
	}
}

// Rebound re-applies the position bounds, e.g. after the viewport shrank.
func (w *Window) Rebound() {
	w.position = geometry.ClampPosition(w.position, w.size, w.viewport.Bounds())
}

func (w *Window) finishGesture() {
	mode := w.mode
	if mode == ModeIdle {
		return
	}
	w.tracker.Disarm()
	w.mode = ModeIdle

	ev := Event{WindowID: w.id}
	switch mode {
	case ModeMoving:
		ev.Kind = EventMove
		ev.Position = w.position
	case ModeResizing:
		ev.Kind = EventResize
		ev.Size = w.size
	}
	for _, o := range w.observers {
		o.Notify(ev)
	}
}
