package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/runtimepath"
	"github.com/1broseidon/dextop/internal/window"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desk         *desktop.Desktop
	host         string
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server for desk. host names the front end
// (x11, tui, serve) in GET_STATUS.
func NewServer(desk *desktop.Desktop, host string, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desk:       desk,
		host:       host,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("accept failed", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("read failed", "err", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		s.logger.Debug("request", "command", req.Command)
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("marshal response failed", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("send response failed", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandMoveWindow:
		return s.handleMoveWindow(req.Payload)
	case CommandResizeWindow:
		return s.handleResizeWindow(req.Payload)
	case CommandSetViewport:
		return s.handleSetViewport(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	windows := s.desk.Windows()
	active := 0
	for _, w := range windows {
		if w.Mode != window.ModeIdle {
			active++
		}
	}
	vp := s.desk.Viewport()

	resp, _ := NewOKResponse(StatusData{
		Host:           s.host,
		WindowCount:    len(windows),
		ActiveGestures: active,
		ViewportWidth:  vp.Width,
		ViewportHeight: vp.Height,
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
	})
	return resp
}

func (s *Server) handleListWindows() *Response {
	snaps := s.desk.Windows()
	data := WindowsData{Windows: make([]WindowInfo, 0, len(snaps))}
	for _, snap := range snaps {
		data.Windows = append(data.Windows, NewWindowInfo(snap))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleMoveWindow(payload json.RawMessage) *Response {
	var p MoveWindowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	return s.drag(p.ID, window.ZoneToolbar, p.DX, p.DY)
}

func (s *Server) handleResizeWindow(payload json.RawMessage) *Response {
	var p ResizeWindowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	return s.drag(p.ID, window.ZoneResizer, p.DW, p.DH)
}

func (s *Server) drag(id string, zone window.Zone, dx, dy int) *Response {
	if id == "" {
		return NewErrorResponse("window id is required")
	}
	snap, err := s.desk.Drag(id, zone, dx, dy)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to drag %s: %v", zone, err))
	}
	s.logger.Info("drag", "window", id, "zone", zone, "dx", dx, "dy", dy)
	resp, _ := NewOKResponse(NewWindowInfo(snap))
	return resp
}

func (s *Server) handleSetViewport(payload json.RawMessage) *Response {
	var p SetViewportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}
	if p.Width <= 0 || p.Height <= 0 {
		return NewErrorResponse("viewport width and height must be > 0")
	}
	s.desk.SetViewport(geometry.Bounds{Width: p.Width, Height: p.Height})
	resp, _ := NewOKResponse(nil)
	return resp
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
