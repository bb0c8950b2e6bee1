package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"habit-coach/internal/habit"
)

// FileStore keeps the habit list as a single pretty-printed JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() ([]habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []habit.Habit{}, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var habits []habit.Habit
	dec := json.NewDecoder(f)
	if err := dec.Decode(&habits); err != nil {
		if err == io.EOF {
			return []habit.Habit{}, nil
		}
		// Corrupt data is treated as absence, not a fatal error.
		log.Printf("warning: habit store at %s is unreadable, treating as empty: %v", s.path, err)
		return []habit.Habit{}, nil
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	return habits, nil
}

func (s *FileStore) Save(habits []habit.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(habits); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
