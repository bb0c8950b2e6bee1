package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"habit-coach/internal/habit"
)

// slotID is the single row key: the store holds one habit list per
// database, mirroring the one-slot contract of FileStore.
const slotID = "habits"

// SQLiteStore keeps the serialized habit list in a single-row table.
// The pure-Go driver keeps the binary cgo-free.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS habit_slots (
		id         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load() ([]habit.Habit, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM habit_slots WHERE id = ?`, slotID).Scan(&payload)
	if err == sql.ErrNoRows {
		return []habit.Habit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query slot: %w", err)
	}
	var habits []habit.Habit
	if err := json.Unmarshal([]byte(payload), &habits); err != nil {
		// Corrupt data is treated as absence, not a fatal error.
		log.Printf("warning: habit slot is unreadable, treating as empty: %v", err)
		return []habit.Habit{}, nil
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	return habits, nil
}

func (s *SQLiteStore) Save(habits []habit.Habit) error {
	b, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO habit_slots (id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slotID, string(b), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM habit_slots WHERE id = ?`, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
