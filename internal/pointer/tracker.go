// Package pointer accumulates pointer samples during a drag gesture.
package pointer

import (
	"errors"

	"github.com/1broseidon/dextop/internal/geometry"
)

// ErrUnarmed is returned when a delta is requested outside a gesture.
var ErrUnarmed = errors.New("pointer tracker is not armed")

// Tracker holds the last pointer coordinate seen during a gesture.
// The zero value is an unarmed tracker.
type Tracker struct {
	anchor geometry.Position
	armed  bool
}

// Arm records the gesture start point.
func (t *Tracker) Arm(p geometry.Position) {
	t.anchor = p
	t.armed = true
}

// Rearm moves the anchor to p so the next delta is relative to the
// immediately preceding sample rather than the gesture start.
func (t *Tracker) Rearm(p geometry.Position) {
	t.Arm(p)
}

// Disarm clears the anchor.
func (t *Tracker) Disarm() {
	t.anchor = geometry.Position{}
	t.armed = false
}

// Armed reports whether a gesture is being tracked.
func (t *Tracker) Armed() bool {
	return t.armed
}

// Anchor returns the current anchor, if armed.
func (t *Tracker) Anchor() (geometry.Position, bool) {
	return t.anchor, t.armed
}

// Delta returns anchor - p. Pointer travel right or down therefore yields
// negative components.
func (t *Tracker) Delta(p geometry.Position) (geometry.Delta, error) {
	if !t.armed {
		return geometry.Delta{}, ErrUnarmed
	}
	return geometry.Delta{DX: t.anchor.X - p.X, DY: t.anchor.Y - p.Y}, nil
}
