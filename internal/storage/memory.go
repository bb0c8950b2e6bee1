package storage

import (
	"encoding/json"
	"sync"

	"habit-coach/internal/habit"
)

// MemoryStore holds the serialized habit list in memory. It backs tests
// and ephemeral runs; it round-trips through JSON so that it behaves
// exactly like the durable backends.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() ([]habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		return []habit.Habit{}, nil
	}
	var habits []habit.Habit
	if err := json.Unmarshal(s.data, &habits); err != nil {
		return []habit.Habit{}, nil
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	return habits, nil
}

func (s *MemoryStore) Save(habits []habit.Habit) error {
	b, err := json.Marshal(habits)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites the slot with unparseable bytes. Test helper.
func (s *MemoryStore) Corrupt() {
	s.mu.Lock()
	s.data = []byte("{not json")
	s.mu.Unlock()
}
