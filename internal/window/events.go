package window

import (
	"sync/atomic"

	"github.com/1broseidon/dextop/internal/geometry"
)

// EventKind names a completed gesture.
type EventKind string

const (
	EventMove   EventKind = "move"
	EventResize EventKind = "resize"
)

// Event carries the settled geometry of a completed gesture. Move events
// fill Position, resize events fill Size.
type Event struct {
	WindowID string            `json:"id"`
	Kind     EventKind         `json:"kind"`
	Position geometry.Position `json:"position"`
	Size     geometry.Size     `json:"size"`
}

// Observer receives completed-gesture events. Notify runs synchronously on
// the goroutine that delivered the terminating pointer event.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// EventChannel is an Observer that forwards events to a buffered channel.
// Sends never block; events that do not fit are counted and dropped.
type EventChannel struct {
	c       chan Event
	dropped atomic.Uint64
}

// NewEventChannel creates a channel observer with the given buffer size.
func NewEventChannel(buffer int) *EventChannel {
	return &EventChannel{c: make(chan Event, buffer)}
}

// C returns the receive side of the channel.
func (ec *EventChannel) C() <-chan Event {
	return ec.c
}

// Dropped returns how many events were discarded because the buffer was full.
func (ec *EventChannel) Dropped() uint64 {
	return ec.dropped.Load()
}

func (ec *EventChannel) Notify(e Event) {
	select {
	case ec.c <- e:
	default:
		ec.dropped.Add(1)
	}
}
