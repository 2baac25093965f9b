// Package journal records completed window gestures as JSON lines in a
// size-rotated file.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/1broseidon/dextop/internal/window"
)

// Config holds configuration for the journal.
type Config struct {
	Enabled   bool
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Entry is one line of the journal.
type Entry struct {
	Time   time.Time        `json:"time"`
	Window string           `json:"id"`
	Kind   window.EventKind `json:"kind"`
	X      int              `json:"x,omitempty"`
	Y      int              `json:"y,omitempty"`
	Width  int              `json:"width,omitempty"`
	Height int              `json:"height,omitempty"`
}

// Journal appends gesture events to a file. It implements window.Observer.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	maxBytes    int64
	currentSize int64
	now         func() time.Time
}

// New opens the journal file. A disabled config yields a journal that
// drops every event.
func New(cfg Config) (*Journal, error) {
	j := &Journal{
		config:   cfg,
		maxBytes: int64(cfg.MaxSizeMB) * 1024 * 1024,
		now:      time.Now,
	}
	if !cfg.Enabled {
		return j, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat journal: %w", err)
	}

	j.file = f
	j.currentSize = stat.Size()
	return j, nil
}

// Notify records ev. Write failures are reported on stderr and otherwise
// ignored so a full disk never interrupts a gesture.
func (j *Journal) Notify(ev window.Event) {
	if j == nil || !j.config.Enabled {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}

	if j.maxBytes > 0 && j.currentSize >= j.maxBytes {
		if err := j.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "journal rotation failed: %v\n", err)
		}
		if j.file == nil {
			return
		}
	}

	entry := Entry{Time: j.now().UTC(), Window: ev.WindowID, Kind: ev.Kind}
	switch ev.Kind {
	case window.EventMove:
		entry.X, entry.Y = ev.Position.X, ev.Position.Y
	case window.EventResize:
		entry.Width, entry.Height = ev.Size.Width, ev.Size.Height
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode journal entry: %v\n", err)
		return
	}
	line = append(line, '\n')

	n, err := j.file.Write(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write journal entry: %v\n", err)
		return
	}
	j.currentSize += int64(n)
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// rotate shifts events.jsonl -> events.jsonl.1 -> events.jsonl.2 and so on,
// keeping MaxFiles rotated files.
func (j *Journal) rotate() error {
	if j.file != nil {
		j.file.Close()
		j.file = nil
	}

	basePath := j.config.FilePath
	for i := j.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		newPath := fmt.Sprintf("%s.%d", basePath, i+1)
		if i == j.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, newPath)
		}
	}

	if j.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate journal: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new journal: %w", err)
	}

	j.file = f
	j.currentSize = 0
	return nil
}

// Tail returns up to n of the most recent entries in the journal at path,
// oldest first. Rotated files are not read. Lines that fail to decode are
// skipped.
func Tail(path string, n int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	defer f.Close()

	var out []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
		if n > 0 && len(out) > n {
			out = out[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal %s: %w", path, err)
	}
	return out, nil
}
