package wsinput

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
	"github.com/gorilla/websocket"
)

//go:embed index.html
var indexHTML []byte

// Server handles the websocket pointer stream. Only one controlling
// connection is active at a time: a desktop has a single pointer.
type Server struct {
	mu       sync.Mutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	desk     *desktop.Desktop
	logger   *slog.Logger
	events   *window.EventChannel
	conn     *websocket.Conn

	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a websocket server bound to desk and starts forwarding
// completed gestures to the active connection.
func NewServer(desk *desktop.Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		desk:   desk,
		logger: logger.With("component", "wsinput"),
		events: window.NewEventChannel(64),
		done:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	desk.Subscribe(s.events)
	go s.forwardEvents()
	return s
}

// Handler returns the HTTP routes: the page at / and the socket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	return mux
}

// Close stops event forwarding and drops the active connection.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// ServeHTTP upgrades the connection and processes pointer messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		s.rejectConn(conn, err.Error())
		return
	}
	defer s.cleanupConn(conn)

	s.logger.Info("controller connected", "remote", r.RemoteAddr)
	if err := s.sendState(conn); err != nil {
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(msg); err != nil {
			s.logger.Warn("message failed", "t", msg.T, "err", err)
			if err := s.write(conn, Outbound{T: "error", Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if err := s.sendState(conn); err != nil {
			return
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// rejectConn sends a policy violation close and closes the socket.
func (s *Server) rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(1*time.Second))
	_ = conn.Close()
}

// cleanupConn clears the active connection and ends any gesture it left
// behind.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()

	s.desk.Release()
	s.desk.Leave()
	s.logger.Info("controller disconnected")
}

// handleMessage dispatches a single pointer message.
func (s *Server) handleMessage(msg Message) error {
	p := geometry.Position{X: msg.X, Y: msg.Y}
	switch msg.T {
	case "down":
		_, _, err := s.desk.Press(p)
		return err
	case "move":
		return s.desk.Move(p)
	case "up":
		s.desk.Release()
		return nil
	case "leave":
		s.desk.Leave()
		return nil
	case "viewport":
		if msg.W <= 0 || msg.H <= 0 {
			return fmt.Errorf("viewport must be positive, got %dx%d", msg.W, msg.H)
		}
		s.desk.SetViewport(geometry.Bounds{Width: msg.W, Height: msg.H})
		return nil
	default:
		return nil
	}
}

func (s *Server) sendState(conn *websocket.Conn) error {
	snaps := s.desk.Windows()
	states := make([]WindowState, 0, len(snaps))
	for _, snap := range snaps {
		states = append(states, stateFrom(snap))
	}
	return s.write(conn, Outbound{T: "state", Windows: states})
}

func (s *Server) forwardEvents() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events.C():
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn == nil {
				continue
			}
			if err := s.write(conn, eventMessage(ev)); err != nil {
				s.logger.Debug("event push failed", "window", ev.WindowID, "err", err)
			}
		}
	}
}

// write serializes writes; gorilla connections allow one writer at a time.
func (s *Server) write(conn *websocket.Conn, msg Outbound) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
