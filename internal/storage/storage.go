// Package storage provides JSON-based persistence for the event store.
//
// The store is a single events.json file holding the full ordered record
// sequence; every save writes a complete snapshot, never an append.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmcewan/expowatch/internal/event"
)

// Store handles persistence of the canonical event sequence.
type Store struct {
	path string
}

// New creates a Store for the given file path, expanding a leading ~ and
// creating the parent directory if needed.
func New(path string) (*Store, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Store{path: path}, nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted sequence. A missing file is an empty store; any
// other read or decode failure is surfaced, never swallowed.
func (s *Store) Load() ([]*event.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("reading event store: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing event store: %w", err)
	}
	return events, nil
}

// Save writes the full sequence as one consistent snapshot.
func (s *Store) Save(events []*event.Event) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding event store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing event store: %w", err)
	}
	return nil
}
