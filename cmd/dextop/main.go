package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/dextop/internal/config"
	"github.com/1broseidon/dextop/internal/ipc"
	"github.com/1broseidon/dextop/internal/journal"
	"github.com/1broseidon/dextop/internal/tui"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "x11":
		os.Exit(runX11(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "move":
		os.Exit(runDrag("move", os.Args[2:]))
	case "resize":
		os.Exit(runDrag("resize", os.Args[2:]))
	case "viewport":
		os.Exit(runViewport(os.Args[2:]))
	case "events":
		os.Exit(runEvents(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dextop <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Hosts:")
	fmt.Fprintln(w, "  x11                 Float windows on the X display")
	fmt.Fprintln(w, "  tui                 Float windows inside this terminal")
	fmt.Fprintln(w, "  serve               Serve the browser surface over WebSocket")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Control a running host:")
	fmt.Fprintln(w, "  status              Show host status")
	fmt.Fprintln(w, "  windows             List windows")
	fmt.Fprintln(w, "  move                Move a window by a pointer delta")
	fmt.Fprintln(w, "  resize              Resize a window by a pointer delta")
	fmt.Fprintln(w, "  viewport            Change the surface size")
	fmt.Fprintln(w, "  events              Show recent completed gestures from the journal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write a config file interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'dextop <command> --help' for command-specific options.")
}

// parseFlags parses args and maps -h to exit code 0 and other errors to 2.
// ok is false when the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show host status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		fmt.Fprintln(os.Stderr, "no dextop host is running (start one with 'dextop x11', 'dextop tui' or 'dextop serve')")
		return 1
	}
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("host:            %s\n", status.Host)
	fmt.Printf("window_count:    %d\n", status.WindowCount)
	fmt.Printf("active_gestures: %d\n", status.ActiveGestures)
	fmt.Printf("viewport:        %dx%d\n", status.ViewportWidth, status.ViewportHeight)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List windows in stacking order, bottom first.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(windows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	for _, w := range windows {
		fmt.Printf("%-16s %5d,%-5d %5dx%-5d %-8s %s\n", w.ID, w.X, w.Y, w.Width, w.Height, w.Mode, w.Visibility)
	}
	return 0
}

// runDrag implements "move" and "resize": one synthetic gesture on the
// window's toolbar or resizer.
func runDrag(kind string, args []string) int {
	fs := flag.NewFlagSet(kind, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dextop %s <id> <dx> <dy>\n", kind)
		fmt.Fprintln(os.Stderr, "")
		if kind == "move" {
			fmt.Fprintln(os.Stderr, "Drag the window's toolbar by (dx, dy). The result stays inside the viewport.")
		} else {
			fmt.Fprintln(os.Stderr, "Drag the window's resizer by (dx, dy). The result respects the minimum size.")
		}
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 3 {
		fmt.Fprintf(os.Stderr, "%s requires <id> <dx> <dy>\n", kind)
		fs.Usage()
		return 2
	}
	dx, err1 := strconv.Atoi(fs.Arg(1))
	dy, err2 := strconv.Atoi(fs.Arg(2))
	if err1 != nil || err2 != nil {
		fmt.Fprintln(os.Stderr, "dx and dy must be integers")
		return 2
	}

	client := ipc.NewClient()
	var info *ipc.WindowInfo
	var err error
	if kind == "move" {
		info, err = client.MoveWindow(fs.Arg(0), dx, dy)
	} else {
		info, err = client.ResizeWindow(fs.Arg(0), dx, dy)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s: position %d,%d size %dx%d\n", info.ID, info.X, info.Y, info.Width, info.Height)
	return 0
}

func runViewport(args []string) int {
	fs := flag.NewFlagSet("viewport", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop viewport <width> <height>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resize the surface. Windows are pulled back inside the new bounds.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	w, err1 := strconv.Atoi(fs.Arg(0))
	h, err2 := strconv.Atoi(fs.Arg(1))
	if err1 != nil || err2 != nil {
		fmt.Fprintln(os.Stderr, "width and height must be integers")
		return 2
	}
	if err := ipc.NewClient().SetViewport(w, h); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runEvents(args []string) int {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dextop events [-n N] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the most recent completed gestures from the journal.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	n := fs.Int("n", 20, "Number of entries to show")
	path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	entries, err := journal.Tail(res.Config.GetJournalConfig().File, *n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, e := range entries {
		switch e.Kind {
		case "resize":
			fmt.Printf("%s  %-16s resize  %dx%d\n", e.Time.Format("2006-01-02 15:04:05"), e.Window, e.Width, e.Height)
		default:
			fmt.Printf("%s  %-16s move    %d,%d\n", e.Time.Format("2006-01-02 15:04:05"), e.Window, e.X, e.Y)
		}
	}
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  dextop config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  dextop config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  dextop config explain [--path PATH] <yaml.path>")
		fmt.Fprintln(os.Stderr, "  dextop config init [--path PATH] [--force]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/dextop/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		target := *path
		if target == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			target = p
		}
		if _, err := os.Stat(target); err == nil && !*force {
			fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", target)
			return 1
		}

		cfg, err := tui.NewWizard(nil).Run()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := cfg.SaveToPath(target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("wrote %s\n", target)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
