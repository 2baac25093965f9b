package x11

import (
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

// ColorHighlightFallback is used when a window's color cannot be parsed.
const ColorHighlightFallback = 0x3498db

type part int

const (
	partContent part = iota
	partToolbar
	partBorderTop
	partBorderBottom
	partBorderLeft
	partBorderRight
	partResizer
	partCount
)

// piece is one X window of a frame, in root coordinates.
type piece struct {
	rect    geometry.Rect
	pixel   uint32
	visible bool
}

// layout splits a snapshot into the X windows that draw it. Windows created
// later stack above earlier ones, so the resizer overlaps the border corner.
func layout(s window.Snapshot, origin geometry.Position, highlight uint32) [partCount]piece {
	chrome := uint32(ColorIdleChrome)
	if s.Highlighted {
		chrome = highlight
	}
	shown := s.ChromeVisible()
	b := s.Border
	e := s.Extent.Offset(origin)

	var out [partCount]piece
	out[partContent] = piece{rect: s.Content.Offset(origin), pixel: ColorContent, visible: true}
	out[partToolbar] = piece{rect: s.Toolbar.Offset(origin), pixel: chrome, visible: shown}
	out[partBorderTop] = piece{rect: geometry.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: b}, pixel: chrome, visible: shown && b > 0}
	out[partBorderBottom] = piece{rect: geometry.Rect{X: e.X, Y: e.Y + e.Height - b, Width: e.Width, Height: b}, pixel: chrome, visible: shown && b > 0}
	out[partBorderLeft] = piece{rect: geometry.Rect{X: e.X, Y: e.Y + b, Width: b, Height: e.Height - 2*b}, pixel: chrome, visible: shown && b > 0}
	out[partBorderRight] = piece{rect: geometry.Rect{X: e.X + e.Width - b, Y: e.Y + b, Width: b, Height: e.Height - 2*b}, pixel: chrome, visible: shown && b > 0}
	out[partResizer] = piece{rect: s.Resizer.Offset(origin), pixel: chrome, visible: shown}
	return out
}

type frame struct {
	id     string
	snap   window.Snapshot
	wins   [partCount]*xwindow.Window
	last   [partCount]piece
	mapped [partCount]bool
}

// FrameRenderer draws every desktop window as a set of override-redirect X
// windows. It implements desktop.Renderer.
type FrameRenderer struct {
	conn   *Connection
	titles map[string]string
	logger *slog.Logger

	mu      sync.Mutex
	origin  geometry.Position
	frames  map[string]*frame
	pixels  map[string]uint32
	onFrame func(*frame)

	font    xproto.Font
	gc      xproto.Gcontext
	noTitle bool
}

// NewFrameRenderer creates a renderer on conn. titles maps window ids to
// toolbar labels.
func NewFrameRenderer(conn *Connection, titles map[string]string, logger *slog.Logger) *FrameRenderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FrameRenderer{
		conn:   conn,
		titles: titles,
		logger: logger.With("component", "x11"),
		frames: make(map[string]*frame),
		pixels: make(map[string]uint32),
	}
}

// Render implements desktop.Renderer.
func (r *FrameRenderer) Render(s window.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.frames[s.ID]
	if !ok {
		var err error
		f, err = r.createFrame(s.ID)
		if err != nil {
			r.logger.Error("failed to create frame", "window", s.ID, "error", err)
			return
		}
		r.frames[s.ID] = f
		if r.onFrame != nil {
			r.onFrame(f)
		}
	}
	f.snap = s
	r.apply(f)
}

// Forget implements desktop.Renderer.
func (r *FrameRenderer) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.frames[id]; ok {
		destroyFrame(f)
		delete(r.frames, id)
	}
}

// SetOrigin moves the desktop surface to origin in root coordinates and
// repositions every frame.
func (r *FrameRenderer) SetOrigin(origin geometry.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if origin == r.origin {
		return
	}
	r.origin = origin
	for _, f := range r.frames {
		r.apply(f)
	}
}

// Origin returns the root coordinates of the desktop's top-left corner.
func (r *FrameRenderer) Origin() geometry.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.origin
}

// Close destroys every frame and the text resources.
func (r *FrameRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.frames {
		destroyFrame(f)
		delete(r.frames, id)
	}
	conn := r.conn.XUtil.Conn()
	if r.gc != 0 {
		xproto.FreeGC(conn, r.gc)
		r.gc = 0
	}
	if r.font != 0 {
		xproto.CloseFont(conn, r.font)
		r.font = 0
	}
}

// setFrameHook installs fn for frames created from now on and runs it for
// the existing ones.
func (r *FrameRenderer) setFrameHook(fn func(*frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onFrame = fn
	for _, f := range r.frames {
		fn(f)
	}
}

func (r *FrameRenderer) highlight(color string) uint32 {
	if px, ok := r.pixels[color]; ok {
		return px
	}
	px, err := ParsePixel(color)
	if err != nil {
		r.logger.Warn("invalid window color, using fallback", "color", color, "error", err)
		px = ColorHighlightFallback
	}
	r.pixels[color] = px
	return px
}

func (r *FrameRenderer) createFrame(id string) (*frame, error) {
	xu := r.conn.XUtil
	f := &frame{id: id}
	for i := range f.wins {
		w, err := xwindow.Generate(xu)
		if err != nil {
			destroyFrame(f)
			return nil, err
		}
		// Value list order follows the bit positions of the mask:
		// CwBackPixel comes before CwOverrideRedirect.
		if err := w.CreateChecked(r.conn.Root, 0, 0, 1, 1,
			xproto.CwBackPixel|xproto.CwOverrideRedirect, ColorContent, 1); err != nil {
			destroyFrame(f)
			return nil, err
		}
		f.wins[i] = w
		if err := w.Listen(
			xproto.EventMaskPointerMotion,
			xproto.EventMaskEnterWindow,
			xproto.EventMaskLeaveWindow,
			xproto.EventMaskExposure,
			xproto.EventMaskStructureNotify,
		); err != nil {
			destroyFrame(f)
			return nil, err
		}
	}

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count != 0 {
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		r.drawTitle(f)
	}).Connect(xu, f.wins[partToolbar].Id)

	return f, nil
}

func destroyFrame(f *frame) {
	for i, w := range f.wins {
		if w != nil {
			w.Destroy()
			f.wins[i] = nil
		}
	}
}

// apply pushes f.snap to the X server. Only changed pieces are touched.
func (r *FrameRenderer) apply(f *frame) {
	pieces := layout(f.snap, r.origin, r.highlight(f.snap.Color))
	for i, p := range pieces {
		w := f.wins[i]
		if !p.visible {
			if f.mapped[i] {
				w.Unmap()
				f.mapped[i] = false
			}
			f.last[i] = p
			continue
		}
		if p.rect != f.last[i].rect || !f.mapped[i] {
			w.MoveResize(p.rect.X, p.rect.Y, max(p.rect.Width, 1), max(p.rect.Height, 1))
		}
		if p.pixel != f.last[i].pixel || !f.mapped[i] {
			w.Change(xproto.CwBackPixel, p.pixel)
			xproto.ClearArea(r.conn.XUtil.Conn(), false, w.Id, 0, 0, 0, 0)
		}
		if !f.mapped[i] {
			w.Map()
			f.mapped[i] = true
		}
		f.last[i] = p
	}
	r.drawTitle(f)
}

// drawTitle writes the window title onto the toolbar with a core font.
// Title text is skipped entirely when no core font can be opened.
func (r *FrameRenderer) drawTitle(f *frame) {
	if !f.mapped[partToolbar] || !r.ensureText() {
		return
	}
	title := r.titles[f.id]
	if title == "" {
		title = f.id
	}
	if len(title) > 255 {
		title = title[:255]
	}

	conn := r.conn.XUtil.Conn()
	bar := f.last[partToolbar]
	xproto.ChangeGC(conn, r.gc, xproto.GcForeground|xproto.GcBackground, []uint32{ColorTitle, bar.pixel})
	baseline := bar.rect.Height/2 + 4
	xproto.ImageText8(conn, byte(len(title)), xproto.Drawable(f.wins[partToolbar].Id), r.gc, 6, int16(baseline), title)
}

func (r *FrameRenderer) ensureText() bool {
	if r.noTitle {
		return false
	}
	if r.gc != 0 {
		return true
	}

	conn := r.conn.XUtil.Conn()
	font, err := xproto.NewFontId(conn)
	if err != nil {
		r.noTitle = true
		return false
	}
	opened := false
	for _, name := range []string{"fixed", "9x15", "8x13", "6x13"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		r.logger.Warn("no core font available, titles disabled")
		r.noTitle = true
		return false
	}

	gc, err := xproto.NewGcontextId(conn)
	if err == nil {
		err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(r.conn.Root),
			xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
			[]uint32{ColorTitle, ColorIdleChrome, uint32(font), 0},
		).Check()
	}
	if err != nil {
		xproto.CloseFont(conn, font)
		r.noTitle = true
		return false
	}
	r.font = font
	r.gc = gc
	return true
}
