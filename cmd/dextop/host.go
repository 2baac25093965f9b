package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/dextop/internal/config"
	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/ipc"
	"github.com/1broseidon/dextop/internal/journal"
	"github.com/1broseidon/dextop/internal/tui"
	"github.com/1broseidon/dextop/internal/wsinput"
	"github.com/1broseidon/dextop/internal/x11"
)

// session is the state every host shares: the desktop, its journal and
// the IPC control socket.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	desk    *desktop.Desktop
	journal *journal.Journal
	ipc     *ipc.Server
}

func startSession(cfg *config.Config, host string, viewport geometry.Bounds, renderer desktop.Renderer, logger *slog.Logger) (*session, error) {
	desk := desktop.New(viewport, renderer, logger)

	jc := cfg.GetJournalConfig()
	j, err := journal.New(journal.Config{
		Enabled:   jc.Enabled,
		FilePath:  jc.File,
		MaxSizeMB: jc.MaxSizeMB,
		MaxFiles:  jc.MaxFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	desk.Subscribe(j)

	srv, err := ipc.NewServer(desk, host, logger)
	if err != nil {
		j.Close()
		return nil, err
	}
	if err := srv.Start(); err != nil {
		j.Close()
		return nil, fmt.Errorf("failed to start IPC server: %w", err)
	}
	logger.Info("session started", "host", host, "socket", srv.SocketPath())

	return &session{cfg: cfg, logger: logger, desk: desk, journal: j, ipc: srv}, nil
}

// openWindows opens every configured window through open. A window that
// fails to open is logged and skipped.
func (s *session) openWindows(open func(config.WindowSpec) error) {
	for _, spec := range s.cfg.Windows {
		if err := open(spec); err != nil {
			s.logger.Warn("failed to open window", "id", spec.ID, "error", err)
		}
	}
}

func (s *session) Close() {
	s.ipc.Stop()
	if err := s.journal.Close(); err != nil {
		s.logger.Warn("failed to close journal", "error", err)
	}
}

func windowTitles(cfg *config.Config) map[string]string {
	titles := make(map[string]string, len(cfg.Windows))
	for _, spec := range cfg.Windows {
		titles[spec.ID] = spec.Title
	}
	return titles
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func runX11(args []string) int {
	fs := flag.NewFlagSet("x11", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop x11 [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Float the configured windows on the X display. Drag a toolbar to move a")
		fmt.Fprintln(os.Stderr, "window and the bottom-right resizer to resize it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	logger := newLogger(cfg, os.Stderr)

	conn, err := x11.NewConnection()
	if err != nil {
		logger.Error("failed to connect to X server", "error", err)
		return 1
	}
	defer conn.Close()

	frames := x11.NewFrameRenderer(conn, windowTitles(cfg), logger)
	sess, err := startSession(cfg, "x11", cfg.ViewportBounds(), frames, logger)
	if err != nil {
		logger.Error("failed to start session", "error", err)
		return 1
	}
	defer sess.Close()

	host := x11.NewHost(conn, sess.desk, frames, logger)
	if err := host.Refresh(); err != nil {
		logger.Warn("failed to read work area, using configured viewport", "error", err)
	}
	sess.openWindows(func(spec config.WindowSpec) error {
		_, err := sess.desk.Open(spec.ID, cfg.WindowOptions(spec), spec.Position(), spec.Size())
		return err
	})

	ctx, cancel := signalContext()
	defer cancel()

	if cfg.QuitHotkey != "" {
		if err := conn.BindKey(cfg.QuitHotkey, cancel); err != nil {
			logger.Warn("quit hotkey not registered", "error", err)
		}
	}

	if err := host.Run(ctx); err != nil {
		logger.Error("x11 host failed", "error", err)
		return 1
	}
	logger.Info("x11 host stopped")
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop tui [--path PATH] [--log FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Float the configured windows inside this terminal. Window geometry")
		fmt.Fprintln(os.Stderr, "from the config is scaled from pixels to cells.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
	logPath := fs.String("log", "", "Write logs to FILE (the terminal is in use)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	logger := slog.New(slog.DiscardHandler)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = newLogger(cfg, f)
	}

	sess, err := startSession(cfg, "tui", tui.CellBounds(cfg.ViewportBounds()), nil, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sess.Close()

	sess.openWindows(func(spec config.WindowSpec) error {
		_, err := tui.Open(sess.desk, spec.ID, cfg.WindowOptions(spec), spec.Position(), spec.Size())
		return err
	})

	ctx, cancel := signalContext()
	defer cancel()

	if err := tui.Run(ctx, sess.desk, windowTitles(cfg)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop serve [--path PATH] [--listen ADDR]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serve the desktop to a browser. The page at / draws the windows and")
		fmt.Fprintln(os.Stderr, "streams pointer input over the WebSocket at /ws. One browser controls")
		fmt.Fprintln(os.Stderr, "the pointer at a time.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
	listen := fs.String("listen", "", "Listen address (default: config listen)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *listen != "" {
		cfg.Listen = *listen
	}
	logger := newLogger(cfg, os.Stderr)

	sess, err := startSession(cfg, "serve", cfg.ViewportBounds(), nil, logger)
	if err != nil {
		logger.Error("failed to start session", "error", err)
		return 1
	}
	defer sess.Close()

	sess.openWindows(func(spec config.WindowSpec) error {
		_, err := sess.desk.Open(spec.ID, cfg.WindowOptions(spec), spec.Position(), spec.Size())
		return err
	})

	ws := wsinput.NewServer(sess.desk, logger)
	defer ws.Close()

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		ws.Close()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown failed", "error", err)
		}
	}
	logger.Info("server stopped")
	return 0
}
