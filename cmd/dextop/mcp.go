package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/dextop/internal/desktop"
	"github.com/1broseidon/dextop/internal/ipc"
	"github.com/1broseidon/dextop/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dextop mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'dextop mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop mcp serve [--local] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio. By default the tools drive the running")
		fmt.Fprintln(os.Stderr, "host over IPC; --local drives an in-process desktop built from the config.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	local := fs.Bool("local", false, "Drive an in-process desktop instead of a running host")
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
	// stdout carries the protocol.
	logger := newLogger(cfg, os.Stderr)

	var backend mcp.Backend = ipc.NewClient()
	if *local {
		desk := desktop.New(cfg.ViewportBounds(), nil, logger)
		for _, spec := range cfg.Windows {
			if _, err := desk.Open(spec.ID, cfg.WindowOptions(spec), spec.Position(), spec.Size()); err != nil {
				logger.Warn("failed to open window", "id", spec.ID, "error", err)
			}
		}
		backend = mcp.DesktopBackend{Desk: desk, Host: "local"}
	}

	server := mcp.NewServer(backend, logger)

	ctx, cancel := signalContext()
	defer cancel()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("MCP server error", "error", err)
		return 1
	}
	return 0
}
