// Package x11 hosts a desktop on an X server. Every window is drawn as a set
// of override-redirect X windows, and the X pointer drives the desktop.
package x11

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
)

// Host feeds X pointer events into a desktop rendered by a FrameRenderer.
type Host struct {
	conn   *Connection
	desk   *desktop.Desktop
	frames *FrameRenderer
	logger *slog.Logger
}

// NewHost binds input handlers to every frame the renderer creates. desk
// must have been created with frames as its renderer.
func NewHost(conn *Connection, desk *desktop.Desktop, frames *FrameRenderer, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Host{
		conn:   conn,
		desk:   desk,
		frames: frames,
		logger: logger.With("component", "x11"),
	}
	frames.setFrameHook(h.bind)
	return h
}

// Refresh re-reads the work area and resizes the desktop surface to it.
func (h *Host) Refresh() error {
	area, err := h.conn.WorkArea()
	if err != nil {
		return err
	}
	h.frames.SetOrigin(geometry.Position{X: area.X, Y: area.Y})
	h.desk.SetViewport(geometry.Bounds{Width: area.Width, Height: area.Height})
	h.logger.Debug("work area", "x", area.X, "y", area.Y, "width", area.Width, "height", area.Height)
	return nil
}

// Run processes X events until ctx is cancelled. All desktop input happens
// on the event loop goroutine.
func (h *Host) Run(ctx context.Context) error {
	if err := h.Refresh(); err != nil {
		return fmt.Errorf("failed to read work area: %w", err)
	}

	xu := h.conn.XUtil
	root := xwindow.New(xu, h.conn.Root)
	if err := root.Listen(xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to watch root window: %w", err)
	}
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		if err := h.Refresh(); err != nil {
			h.logger.Warn("failed to refresh work area", "error", err)
		}
	}).Connect(xu, h.conn.Root)

	before, after, quit := xevent.MainPing(xu)
	for {
		select {
		case <-before:
			<-after
		case <-quit:
			return nil
		case <-ctx.Done():
			h.shutdown(before, after, quit)
			return nil
		}
	}
}

// shutdown stops the event loop. Destroying the frames produces the
// DestroyNotify events that wake a loop blocked on the server.
func (h *Host) shutdown(before, after, quit chan struct{}) {
	h.conn.Quit()
	h.frames.Close()
	timeout := time.After(time.Second)
	for {
		select {
		case <-before:
			<-after
		case <-quit:
			return
		case <-timeout:
			h.logger.Warn("event loop did not stop in time")
			return
		}
	}
}

func (h *Host) toDesktop(rootX, rootY int) geometry.Position {
	o := h.frames.Origin()
	return geometry.Position{X: rootX - o.X, Y: rootY - o.Y}
}

func (h *Host) pointerAt(rootX, rootY int) {
	if err := h.desk.Move(h.toDesktop(rootX, rootY)); err != nil {
		h.logger.Warn("pointer move failed", "error", err)
	}
}

// bind runs with the renderer lock held and must not touch the desktop.
func (h *Host) bind(f *frame) {
	xu := h.conn.XUtil
	for _, w := range f.wins {
		xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
			h.pointerAt(int(ev.RootX), int(ev.RootY))
		}).Connect(xu, w.Id)
		xevent.EnterNotifyFun(func(_ *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
			h.pointerAt(int(ev.RootX), int(ev.RootY))
		}).Connect(xu, w.Id)
		xevent.LeaveNotifyFun(func(_ *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
			h.pointerAt(int(ev.RootX), int(ev.RootY))
		}).Connect(xu, w.Id)
	}

	for _, p := range []part{partToolbar, partResizer} {
		win := f.wins[p].Id
		mousebind.Drag(xu, win, win, "1", true,
			func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) (bool, xproto.Cursor) {
				id, zone, err := h.desk.Press(h.toDesktop(rootX, rootY))
				if err != nil {
					h.logger.Warn("press failed", "error", err)
					return false, 0
				}
				if id != "" {
					h.logger.Debug("drag started", "window", id, "zone", zone)
				}
				return id != "", 0
			},
			func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
				h.pointerAt(rootX, rootY)
			},
			func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
				h.pointerAt(rootX, rootY)
				h.desk.Release()
			},
		)
	}
}
