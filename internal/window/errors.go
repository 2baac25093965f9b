package window

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState marks programming-contract violations such as
	// processing a pointer delta without an armed gesture.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidConfig marks construction parameters that can never describe
	// a usable window.
	ErrInvalidConfig = errors.New("invalid config")
)

// InvalidStateError reports an operation that is illegal in the current mode.
type InvalidStateError struct {
	Op     string
	Mode   Mode
	Reason string
	Err    error
}

func (e *InvalidStateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s in mode %s: %s", e.Op, e.Mode, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error { return e.Err }

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// InvalidConfigError reports a rejected construction parameter.
type InvalidConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s=%d: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool { return target == ErrInvalidConfig }
