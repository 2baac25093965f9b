package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/dextop/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandMoveWindow   CommandType = "MOVE_WINDOW"
	CommandResizeWindow CommandType = "RESIZE_WINDOW"
	CommandSetViewport  CommandType = "SET_VIEWPORT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Host           string `json:"host"`
	WindowCount    int    `json:"window_count"`
	ActiveGestures int    `json:"active_gestures"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// WindowInfo is the wire form of a window snapshot.
type WindowInfo struct {
	ID         string            `json:"id"`
	X          int               `json:"x"`
	Y          int               `json:"y"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Mode       window.Mode       `json:"mode"`
	Visibility window.Visibility `json:"visibility"`
}

// NewWindowInfo flattens a snapshot for the wire.
func NewWindowInfo(s window.Snapshot) WindowInfo {
	return WindowInfo{
		ID:         s.ID,
		X:          s.Position.X,
		Y:          s.Position.Y,
		Width:      s.Size.Width,
		Height:     s.Size.Height,
		Mode:       s.Mode,
		Visibility: s.Visibility,
	}
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// MoveWindowPayload drags a window's toolbar by (DX, DY).
type MoveWindowPayload struct {
	ID string `json:"id"`
	DX int    `json:"dx"`
	DY int    `json:"dy"`
}

// ResizeWindowPayload drags a window's resizer by (DW, DH).
type ResizeWindowPayload struct {
	ID string `json:"id"`
	DW int    `json:"dw"`
	DH int    `json:"dh"`
}

type SetViewportPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
