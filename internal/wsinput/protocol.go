// Package wsinput drives a desktop from a browser pointer stream over a
// websocket and pushes window state back to the page.
package wsinput

import (
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

// Rect represents a rectangle sent to the client UI.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func rectFrom(r geometry.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
}

// Message is an inbound pointer payload.
//
//	{"t":"down","x":10,"y":20}
//	{"t":"move","x":11,"y":20}
//	{"t":"up"}
//	{"t":"leave"}
//	{"t":"viewport","w":1280,"h":720}
type Message struct {
	T string `json:"t"`
	X int    `json:"x,omitempty"`
	Y int    `json:"y,omitempty"`
	W int    `json:"w,omitempty"`
	H int    `json:"h,omitempty"`
}

// WindowState is the paint-ready form of a window snapshot.
type WindowState struct {
	ID          string            `json:"id"`
	Mode        window.Mode       `json:"mode"`
	Visibility  window.Visibility `json:"visibility"`
	Highlighted bool              `json:"highlighted"`
	Border      int               `json:"border"`
	Color       string            `json:"color"`
	Frame       Rect              `json:"frame"`
	Toolbar     Rect              `json:"toolbar"`
	Content     Rect              `json:"content"`
	Resizer     Rect              `json:"resizer"`
}

func stateFrom(s window.Snapshot) WindowState {
	return WindowState{
		ID:          s.ID,
		Mode:        s.Mode,
		Visibility:  s.Visibility,
		Highlighted: s.Highlighted,
		Border:      s.Border,
		Color:       s.Color,
		Frame:       rectFrom(s.Extent),
		Toolbar:     rectFrom(s.Toolbar),
		Content:     rectFrom(s.Content),
		Resizer:     rectFrom(s.Resizer),
	}
}

// Outbound is a server push. Coordinates are always present since zero is a
// valid edge position.
//
//	{"t":"move","id":"notes","x":0,"y":40,"w":0,"h":0}
//	{"t":"resize","id":"notes","x":0,"y":0,"w":320,"h":200}
//	{"t":"state","windows":[...]}
//	{"t":"error","error":"..."}
type Outbound struct {
	T       string        `json:"t"`
	ID      string        `json:"id,omitempty"`
	X       int           `json:"x"`
	Y       int           `json:"y"`
	W       int           `json:"w"`
	H       int           `json:"h"`
	Windows []WindowState `json:"windows,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func eventMessage(ev window.Event) Outbound {
	out := Outbound{T: string(ev.Kind), ID: ev.WindowID}
	switch ev.Kind {
	case window.EventMove:
		out.X, out.Y = ev.Position.X, ev.Position.Y
	case window.EventResize:
		out.W, out.H = ev.Size.Width, ev.Size.Height
	}
	return out
}
