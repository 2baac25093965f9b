package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/dextop/internal/geometry"
	"github.com/1broseidon/dextop/internal/window"
)

func TestDisabledJournalDropsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	j, err := New(Config{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	j.Notify(window.Event{WindowID: "a", Kind: window.EventMove})
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no journal file, got %v", err)
	}
}

func TestNotifyWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "events.jsonl")
	j, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Notify(window.Event{WindowID: "a", Kind: window.EventMove, Position: geometry.Position{X: 400, Y: 107}})
	j.Notify(window.Event{WindowID: "b", Kind: window.EventResize, Size: geometry.Size{Width: 500, Height: 400}})
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := Tail(path, 0)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if e := entries[0]; e.Window != "a" || e.Kind != window.EventMove || e.X != 400 || e.Y != 107 || !e.Time.Equal(fixed) {
		t.Fatalf("unexpected move entry %+v", e)
	}
	if e := entries[1]; e.Window != "b" || e.Kind != window.EventResize || e.Width != 500 || e.Height != 400 {
		t.Fatalf("unexpected resize entry %+v", e)
	}
}

func TestRotationKeepsMaxFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	j, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer j.Close()
	j.maxBytes = 1

	for i := 0; i < 5; i++ {
		j.Notify(window.Event{WindowID: "a", Kind: window.EventMove, Position: geometry.Position{X: i}})
	}

	for _, name := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected %s.3 to be pruned, got %v", path, err)
	}

	entries, err := Tail(path, 0)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 1 || entries[0].X != 4 {
		t.Fatalf("expected only the newest entry in the live file, got %+v", entries)
	}
}

func TestTailLimitsAndSkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	data := `{"id":"a","kind":"move","x":1}
not json
{"id":"a","kind":"move","x":2}
{"id":"a","kind":"move","x":3}
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 2 || entries[0].X != 2 || entries[1].X != 3 {
		t.Fatalf("unexpected entries %+v", entries)
	}

	missing, err := Tail(filepath.Join(t.TempDir(), "none"), 5)
	if err != nil || missing != nil {
		t.Fatalf("expected empty result for missing journal, got %v %v", missing, err)
	}
}
