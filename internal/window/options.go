package window

import "github.com/1broseidon/dextop/internal/geometry"

// Stock values returned by DefaultOptions and DefaultSize.
const (
	DefaultBorder        = 1
	DefaultColor         = "rgba(0, 0, 0, 0.1)"
	DefaultWidth         = 400
	DefaultHeight        = 300
	DefaultResizerSize   = 35
	DefaultToolbarHeight = 28
)

// Options is the construction-time configuration of a window. It is copied
// into the window and never changes afterwards.
type Options struct {
	// Border is the stroke thickness drawn around the window.
	Border int
	// Color is the highlight color used for border, toolbar and resizer
	// while the pointer is over the window.
	Color         string
	ResizerSize   int
	ToolbarHeight int
	// MinWidth and MinHeight default to ToolbarHeight and may not be lower.
	MinWidth  int
	MinHeight int
	// Autohide hides the chrome whenever the pointer is outside the window
	// and no gesture is active.
	Autohide bool
	// StopOnLeave ends an active gesture when the pointer leaves the window.
	// Off by default: gestures end on release only.
	StopOnLeave bool
}

// DefaultOptions returns the stock window configuration.
func DefaultOptions() Options {
	return Options{
		Border:        DefaultBorder,
		Color:         DefaultColor,
		ResizerSize:   DefaultResizerSize,
		ToolbarHeight: DefaultToolbarHeight,
	}
}

// DefaultSize returns the stock initial content size.
func DefaultSize() geometry.Size {
	return geometry.Size{Width: DefaultWidth, Height: DefaultHeight}
}

// validate checks the dimensions and returns a copy with the optional
// fields filled: an empty Color and zero minimums take their defaults.
// ResizerSize and ToolbarHeight must be positive; start from DefaultOptions
// to get the stock values.
func (o Options) validate() (Options, error) {
	if o.Border < 0 {
		return o, &InvalidConfigError{Field: "border", Value: o.Border, Reason: "must be >= 0"}
	}
	if o.ResizerSize <= 0 {
		return o, &InvalidConfigError{Field: "resizer_size", Value: o.ResizerSize, Reason: "must be positive"}
	}
	if o.ToolbarHeight <= 0 {
		return o, &InvalidConfigError{Field: "toolbar_height", Value: o.ToolbarHeight, Reason: "must be positive"}
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.MinWidth == 0 {
		o.MinWidth = o.ToolbarHeight
	}
	if o.MinHeight == 0 {
		o.MinHeight = o.ToolbarHeight
	}
	if o.MinWidth < o.ToolbarHeight {
		return o, &InvalidConfigError{Field: "min_width", Value: o.MinWidth, Reason: "must be >= toolbar_height"}
	}
	if o.MinHeight < o.ToolbarHeight {
		return o, &InvalidConfigError{Field: "min_height", Value: o.MinHeight, Reason: "must be >= toolbar_height"}
	}
	return o, nil
}

func validateSize(s geometry.Size) error {
	if s.Width <= 0 {
		return &InvalidConfigError{Field: "width", Value: s.Width, Reason: "must be positive"}
	}
	if s.Height <= 0 {
		return &InvalidConfigError{Field: "height", Value: s.Height, Reason: "must be positive"}
	}
	return nil
}
