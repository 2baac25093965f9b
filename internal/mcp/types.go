package mcp

import "github.com/1broseidon/dextop/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Host           string `json:"host"`
	WindowCount    int    `json:"window_count"`
	ActiveGestures int    `json:"active_gestures"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as listed by list_windows"`
	DX int    `json:"dx" jsonschema:"required,Horizontal drag distance in pixels (negative moves left)"`
	DY int    `json:"dy" jsonschema:"required,Vertical drag distance in pixels (negative moves up)"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as listed by list_windows"`
	DW int    `json:"dw" jsonschema:"required,Width change in pixels (negative shrinks)"`
	DH int    `json:"dh" jsonschema:"required,Height change in pixels (negative shrinks)"`
}

// WindowOutput is the settled geometry after a move or resize.
type WindowOutput struct {
	Window ipc.WindowInfo `json:"window"`
}

// SetViewportInput is the input for the set_viewport tool.
type SetViewportInput struct {
	Width  int `json:"width" jsonschema:"required,Viewport width in pixels"`
	Height int `json:"height" jsonschema:"required,Viewport height in pixels"`
}

// SetViewportOutput is the output for the set_viewport tool.
type SetViewportOutput struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
