package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/ipc"
	"github.com/1broseidon/dextop/internal/window"
)

const (
	ServerName    = "dextop"
	ServerVersion = "0.1.0"
)

// Backend is the window surface the tools drive. *ipc.Client reaches a
// running host; DesktopBackend drives an in-process desktop.
type Backend interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	MoveWindow(id string, dx, dy int) (*ipc.WindowInfo, error)
	ResizeWindow(id string, dw, dh int) (*ipc.WindowInfo, error)
	SetViewport(width, height int) error
}

// Server is the MCP server exposing window gestures as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *slog.Logger
}

// NewServer creates a new MCP server over backend.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		backend: backend,
		logger:  logger.With("component", "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer exposes the underlying SDK server, e.g. to serve a custom transport.
func (s *Server) MCPServer() *mcpsdk.Server { return s.mcpServer }

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the running dextop host: window count, gestures in progress and the viewport size.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every floating window in stacking order (bottom first) with its position, size, gesture mode and autohide visibility.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Drag a window by its toolbar. The drag runs as a real press/move/release gesture, so the final position is kept inside the viewport.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Drag a window's bottom-right resizer. The size never drops below the window's minimum; it is not limited by the viewport.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_viewport",
		Description: "Change the surface size. Windows that no longer fit are pushed back inside.",
	}, s.handleSetViewport)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.backend.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		Host:           st.Host,
		WindowCount:    st.WindowCount,
		ActiveGestures: st.ActiveGestures,
		ViewportWidth:  st.ViewportWidth,
		ViewportHeight: st.ViewportHeight,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if windows == nil {
		windows = []ipc.WindowInfo{}
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	info, err := s.backend.MoveWindow(args.ID, args.DX, args.DY)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("move_window", "window", args.ID, "dx", args.DX, "dy", args.DY, "x", info.X, "y", info.Y)
	return nil, WindowOutput{Window: *info}, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	info, err := s.backend.ResizeWindow(args.ID, args.DW, args.DH)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("resize_window", "window", args.ID, "dw", args.DW, "dh", args.DH, "width", info.Width, "height", info.Height)
	return nil, WindowOutput{Window: *info}, nil
}

func (s *Server) handleSetViewport(_ context.Context, _ *mcpsdk.CallToolRequest, args SetViewportInput) (*mcpsdk.CallToolResult, SetViewportOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, SetViewportOutput{}, fmt.Errorf("width and height must be > 0")
	}
	if err := s.backend.SetViewport(args.Width, args.Height); err != nil {
		return nil, SetViewportOutput{}, err
	}
	return nil, SetViewportOutput{Width: args.Width, Height: args.Height}, nil
}

// DesktopBackend adapts an in-process desktop to Backend.
type DesktopBackend struct {
	Desk *desktop.Desktop
	Host string
}

func (b DesktopBackend) GetStatus() (*ipc.StatusData, error) {
	windows := b.Desk.Windows()
	active := 0
	for _, w := range windows {
		if w.Mode != window.ModeIdle {
			active++
		}
	}
	vp := b.Desk.Viewport()
	return &ipc.StatusData{
		Host:           b.Host,
		WindowCount:    len(windows),
		ActiveGestures: active,
		ViewportWidth:  vp.Width,
		ViewportHeight: vp.Height,
	}, nil
}

func (b DesktopBackend) ListWindows() ([]ipc.WindowInfo, error) {
	snaps := b.Desk.Windows()
	out := make([]ipc.WindowInfo, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, ipc.NewWindowInfo(snap))
	}
	return out, nil
}

func (b DesktopBackend) MoveWindow(id string, dx, dy int) (*ipc.WindowInfo, error) {
	return b.drag(id, window.ZoneToolbar, dx, dy)
}

func (b DesktopBackend) ResizeWindow(id string, dw, dh int) (*ipc.WindowInfo, error) {
	return b.drag(id, window.ZoneResizer, dw, dh)
}

func (b DesktopBackend) drag(id string, zone window.Zone, dx, dy int) (*ipc.WindowInfo, error) {
	snap, err := b.Desk.Drag(id, zone, dx, dy)
	if err != nil {
		return nil, err
	}
	info := ipc.NewWindowInfo(snap)
	return &info, nil
}

func (b DesktopBackend) SetViewport(width, height int) error {
	b.Desk.SetViewport(geometry.Bounds{Width: width, Height: height})
	return nil
}
