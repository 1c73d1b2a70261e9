package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"app x { a: 1 }", modeParse},
		{"view json", modeCtrl},
		{"  ", modeParse},
		{"view json", modeCtrl},
		{"app y {}", modeParse},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"app x { a: 1 }", modeParse},
		{"view json", modeCtrl},
		{"app y {}", modeParse},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "P:app x { a: 1 }\nC:view json\nP:app y {}\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_MoveDuplicate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history")
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a"} {
		if err := h.Add(line, modeParse); err != nil {
			t.Fatal(err)
		}
	}

	// The same text in another mode is a distinct entry.
	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"b", modeParse}, {"a", modeParse}, {"a", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "P:b\nP:a\nC:a\n" {
		t.Errorf("history file = %q", got)
	}
}

func TestHistory_Entry(t *testing.T) {
	t.Parallel()

	h := NewHistory("")
	if err := h.Add("x", modeCtrl); err != nil {
		t.Fatal(err)
	}

	if e, err := h.Entry(0); err != nil || e != (HistoryEntry{"x", modeCtrl}) {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestDecodeEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want HistoryEntry
	}{
		{"P:app x {}", HistoryEntry{"app x {}", modeParse}},
		{"C:quit", HistoryEntry{"quit", modeCtrl}},
		{"unprefixed", HistoryEntry{"unprefixed", modeParse}},
	}

	for _, tt := range tests {
		if got := decodeEntry(tt.line); got != tt.want {
			t.Errorf("decodeEntry(%q) = %v, want %v", tt.line, got, tt.want)
		}

		if got := decodeEntry(tt.want.encode()); got != tt.want {
			t.Errorf("decodeEntry(encode(%v)) = %v", tt.want, got)
		}
	}
}
