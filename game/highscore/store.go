package highscore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists a high score table
type Store interface {
	Load() (Table, error)
	Save(table Table) error
}

// Recorder serialises load, insert and save on one store
type Recorder struct {
	store Store
	mu    sync.Mutex
}

// NewRecorder wraps a store
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record inserts a result and persists the whole table. It returns the table
// after insertion and the rank of the new entry.
func (r *Recorder) Record(initials string, score int) (Table, int, error) {
	entry, err := NewEntry(initials, score)
	if err != nil {
		return nil, 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	table, err := r.store.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load high scores: %w", err)
	}

	table, rank := table.Insert(entry)
	if err := r.store.Save(table); err != nil {
		return nil, 0, fmt.Errorf("failed to save high scores: %w", err)
	}
	return table, rank, nil
}

// Load returns the current table
func (r *Recorder) Load() (Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load()
}

// FileStore keeps the table as a JSON array in a single file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the table. A missing file is an empty table.
func (s *FileStore) Load() (Table, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return Table{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read high score file: %w", err)
	}
	if len(data) == 0 {
		return Table{}, nil
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse high score file: %w", err)
	}
	if table == nil {
		table = Table{}
	}
	return table, nil
}

// Save overwrites the file with table
func (s *FileStore) Save(table Table) error {
	if table == nil {
		table = Table{}
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal high scores: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create high score directory: %w", err)
		}
	}

	// Write to a temp file first, then rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write high score file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename high score file: %w", err)
	}
	return nil
}
