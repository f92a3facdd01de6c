// Package highscore persists the best score per stage.
package highscore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is the best run recorded for one stage
type Entry struct {
	Score int       `json:"score"`
	At    time.Time `json:"at"`
}

// FileStore keeps scores in a JSON file keyed by stage name.
// The file is rewritten whenever a record is beaten.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	now     func() time.Time
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]Entry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read high scores: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to parse high scores %s: %w", path, err)
	}
	return s, nil
}

// Best returns the recorded score for name, 0 when none
func (s *FileStore) Best(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[name].Score, nil
}

// Submit records score when it beats the stored one and reports whether it did
func (s *FileStore) Submit(name string, score int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if score <= s.entries[name].Score {
		return false, nil
	}
	prev, had := s.entries[name]
	s.entries[name] = Entry{Score: score, At: s.now().UTC()}
	if err := s.save(); err != nil {
		if had {
			s.entries[name] = prev
		} else {
			delete(s.entries, name)
		}
		return false, err
	}
	return true, nil
}

// Entries returns a copy of every record
func (s *FileStore) Entries() map[string]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// save writes the file through a temp file in the same directory
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode high scores: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".highscores-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write high scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write high scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace high scores: %w", err)
	}
	return nil
}

// MemoryStore is an unpersisted store for headless runs
type MemoryStore struct {
	mu     sync.Mutex
	scores map[string]int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]int)}
}

// Best returns the recorded score for name
func (m *MemoryStore) Best(name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[name], nil
}

// Submit records score when it beats the stored one
func (m *MemoryStore) Submit(name string, score int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if score <= m.scores[name] {
		return false, nil
	}
	m.scores[name] = score
	return true, nil
}
