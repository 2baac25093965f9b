package wsinput

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*desktop.Desktop, *httptest.Server) {
	t.Helper()
	desk := desktop.New(geometry.Bounds{Width: 1024, Height: 768}, nil, nil)
	if _, err := desk.Open("notes", window.DefaultOptions(), geometry.Position{X: 0, Y: 0}, geometry.Size{Width: 200, Height: 100}); err != nil {
		t.Fatalf("open: %v", err)
	}
	srv := NewServer(desk, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return desk, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads pushes until one with type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) Outbound {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg Outbound
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read waiting for %q: %v", want, err)
		}
		if msg.T == want {
			return msg
		}
	}
}

func TestInitialStateIsPushed(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	msg := readUntil(t, conn, "state")
	if len(msg.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(msg.Windows))
	}
	w := msg.Windows[0]
	if w.ID != "notes" || w.Frame.W != 202 || w.Frame.H != 130 || w.Toolbar.Y != 1 {
		t.Fatalf("unexpected window state %+v", w)
	}
}

func TestPointerGesturePushesEvent(t *testing.T) {
	desk, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, "state")

	for _, m := range []Message{
		{T: "down", X: 50, Y: 10},
		{T: "move", X: 150, Y: 60},
		{T: "up"},
	} {
		if err := conn.WriteJSON(m); err != nil {
			t.Fatalf("write %s: %v", m.T, err)
		}
	}

	ev := readUntil(t, conn, "move")
	if ev.ID != "notes" || ev.X != 100 || ev.Y != 50 {
		t.Fatalf("unexpected move push %+v", ev)
	}
	snap, _ := desk.Window("notes")
	if snap.Position.X != 100 || snap.Position.Y != 50 || snap.Mode != window.ModeIdle {
		t.Fatalf("unexpected desktop state %+v", snap)
	}
}

func TestViewportMessage(t *testing.T) {
	desk, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, "state")

	if err := conn.WriteJSON(Message{T: "viewport", W: 640, H: 480}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, "state")
	if vp := desk.Viewport(); vp.Width != 640 || vp.Height != 480 {
		t.Fatalf("unexpected viewport %+v", vp)
	}

	if err := conn.WriteJSON(Message{T: "viewport"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readUntil(t, conn, "error")
	if !strings.Contains(msg.Error, "viewport") {
		t.Fatalf("unexpected error push %+v", msg)
	}
}

func TestSecondControllerRejected(t *testing.T) {
	_, ts := newTestServer(t)
	first := dial(t, ts)
	readUntil(t, first, "state")

	second := dial(t, ts)
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := second.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

func TestDisconnectEndsGesture(t *testing.T) {
	desk, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, "state")

	if err := conn.WriteJSON(Message{T: "down", X: 50, Y: 10}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, "state")
	if snap, _ := desk.Window("notes"); snap.Mode != window.ModeMoving {
		t.Fatalf("expected moving, got %s", snap.Mode)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := desk.Window("notes"); snap.Mode == window.ModeIdle {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected gesture to end after disconnect")
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/ws") {
		t.Fatalf("unexpected index response %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
