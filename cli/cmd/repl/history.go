package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

// privateFileMode is the permission mode of files written by the REPL.
const privateFileMode os.FileMode = 0o600

// Line prefixes identifying the mode of each history entry.
const (
	prefixParse = "P:"
	prefixCtrl  = "C:"
)

// HistoryEntry is one line of input and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string {
	if e.Mode == modeCtrl {
		return prefixCtrl + e.Line
	}

	return prefixParse + e.Line
}

func decodeEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, prefixCtrl); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, prefixParse)

	return HistoryEntry{Line: s, Mode: modeParse}
}

// History is the input history of the REPL, persisted one entry per line.
// An empty path keeps the history in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns an empty history stored at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries of h with those in its file. A missing file is
// an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, decodeEntry(line))
	}

	return scanner.Err()
}

// Add appends line to the history. An earlier identical entry in the same
// mode is moved to the end rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	entry := HistoryEntry{Line: strings.TrimSpace(line), Mode: mode}
	if entry.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return nil
	}

	if i >= 0 {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, privateFileMode)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.encode() + "\n")

	return err
}

// Entry returns the entry at index i, oldest first.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewrite replaces the history file with the current entries.
// h.mu must be held.
func (h *History) rewrite() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, privateFileMode)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, e := range h.entries {
		if _, err := w.WriteString(e.encode() + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}
