// Package history keeps the list of recently opened board files.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultMax is the number of entries kept when none is configured.
const DefaultMax = 20

// History is a most-recent-first list of file paths stored as a JSON
// array.
type History struct {
	path    string
	max     int
	entries []string
}

// New returns a history backed by the file at path. max <= 0 uses
// DefaultMax.
func New(path string, max int) *History {
	if max <= 0 {
		max = DefaultMax
	}
	return &History{path: path, max: max}
}

// Load reads the history file. A missing file leaves the list empty.
func (h *History) Load() error {
	h.entries = nil
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if err := json.Unmarshal(data, &h.entries); err != nil {
		return fmt.Errorf("parse history: %w", err)
	}
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
	return nil
}

// Entries returns the paths, most recent first.
func (h *History) Entries() []string {
	return h.entries
}

// Prepend moves file to the front of the list, dropping any earlier
// occurrence and the oldest entries beyond the cap, and saves the list.
func (h *History) Prepend(file string) error {
	entries := []string{file}
	for _, e := range h.entries {
		if e != file {
			entries = append(entries, e)
		}
	}
	if len(entries) > h.max {
		entries = entries[:h.max]
	}
	h.entries = entries
	return h.save()
}

func (h *History) save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	data, err := json.Marshal(h.entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return os.WriteFile(h.path, data, 0644)
}

// TrimFilename returns the tail of path holding its last stops
// components. Paths with fewer separators are returned whole.
func TrimFilename(path string, stops int) string {
	if stops <= 0 {
		return path
	}
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			stops--
			if stops == 0 {
				return path[i+1:]
			}
		}
	}
	return path
}
