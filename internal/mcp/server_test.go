package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/ipc"
	"github.com/1broseidon/dextop/internal/window"
)

func newDesktopServer(t *testing.T) (*desktop.Desktop, *Server) {
	t.Helper()
	desk := desktop.New(geometry.Bounds{Width: 800, Height: 600}, nil, nil)
	if _, err := desk.Open("notes", window.DefaultOptions(), geometry.Position{X: 10, Y: 10}, geometry.Size{Width: 400, Height: 300}); err != nil {
		t.Fatalf("open: %v", err)
	}
	return desk, NewServer(DesktopBackend{Desk: desk, Host: "test"}, nil)
}

func TestHandleMoveWindowIsBounded(t *testing.T) {
	_, s := newDesktopServer(t)

	_, out, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{ID: "notes", DX: 1000, DY: 25})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Window.X != 400 || out.Window.Y != 35 {
		t.Fatalf("expected (400,35), got (%d,%d)", out.Window.X, out.Window.Y)
	}
	if out.Window.Mode != window.ModeIdle {
		t.Fatalf("expected gesture to be complete, got %s", out.Window.Mode)
	}
}

func TestHandleResizeWindowClampsToMinimum(t *testing.T) {
	_, s := newDesktopServer(t)

	_, out, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{ID: "notes", DW: -1000, DH: 50})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if out.Window.Width != window.DefaultToolbarHeight || out.Window.Height != 350 {
		t.Fatalf("expected %dx350, got %dx%d", window.DefaultToolbarHeight, out.Window.Width, out.Window.Height)
	}
}

func TestHandleErrors(t *testing.T) {
	_, s := newDesktopServer(t)
	ctx := context.Background()

	if _, _, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "missing", DW: 1}); err == nil {
		t.Fatalf("expected error for unknown window")
	}
	if _, _, err := s.handleSetViewport(ctx, nil, SetViewportInput{Width: 0, Height: 10}); err == nil {
		t.Fatalf("expected error for empty viewport")
	}
}

func TestHandleStatusAndViewport(t *testing.T) {
	desk, s := newDesktopServer(t)
	ctx := context.Background()

	if _, _, err := s.handleSetViewport(ctx, nil, SetViewportInput{Width: 300, Height: 200}); err != nil {
		t.Fatalf("set viewport: %v", err)
	}
	if vp := desk.Viewport(); vp.Width != 300 || vp.Height != 200 {
		t.Fatalf("unexpected viewport %+v", vp)
	}

	_, st, err := s.handleGetStatus(ctx, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Host != "test" || st.WindowCount != 1 || st.ViewportWidth != 300 {
		t.Fatalf("unexpected status %+v", st)
	}
}

type failingBackend struct{ DesktopBackend }

func (failingBackend) ListWindows() ([]ipc.WindowInfo, error) {
	return nil, errors.New("host not running")
}

func TestHandleListWindowsPropagatesBackendError(t *testing.T) {
	s := NewServer(failingBackend{}, nil)
	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err == nil {
		t.Fatalf("expected backend error")
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	_, s := newDesktopServer(t)
	ctx := context.Background()

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_status", "list_windows", "move_window", "resize_window", "set_viewport"} {
		if !names[want] {
			t.Fatalf("expected tool %q to be registered, got %v", want, names)
		}
	}

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "move_window",
		Arguments: map[string]any{"id": "notes", "dx": 20, "dy": 5},
	})
	if err != nil {
		t.Fatalf("call move_window: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	structured, ok := res.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("expected structured content, got %T", res.StructuredContent)
	}
	w, ok := structured["window"].(map[string]any)
	if !ok || w["x"].(float64) != 30 || w["y"].(float64) != 15 {
		t.Fatalf("unexpected window %+v", structured["window"])
	}

	res, err = cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "move_window",
		Arguments: map[string]any{"id": "missing", "dx": 1, "dy": 1},
	})
	if err != nil {
		t.Fatalf("call move_window: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for unknown window")
	}
}
