package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"habit-coach/internal/habit"
)

func sampleHabits() []habit.Habit {
	return []habit.Habit{
		{
			ID:        "id-1",
			Name:      "Meditate 10 min",
			Frequency: habit.FrequencyDaily,
			TimeOfDay: habit.TimeMorning,
			CreatedAt: time.Unix(1700000000, 0).UTC(),
			Streak:    3,
			Completions: map[string]bool{
				"2024-01-01": true,
				"2024-01-02": true,
				"2024-01-03": true,
			},
		},
		{
			ID:          "id-2",
			Name:        "Read",
			Frequency:   habit.FrequencyWeekly,
			TimeOfDay:   habit.TimeEvening,
			CreatedAt:   time.Unix(1700000001, 0).UTC(),
			Streak:      0,
			Completions: map[string]bool{},
		},
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "habits.json"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}

	want := sampleHabits()
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestFileStore_LoadCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "habits.json")
	if err := os.WriteFile(p, []byte("{{{ definitely not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s, err := NewFileStore(p)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load must not fail on corruption: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestFileStore_ClearRemovesSlot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "habits.json")
	s, err := NewFileStore(p)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	if err := s.Save(sampleHabits()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("file should be gone after clear")
	}
	got, err := s.Load()
	if err != nil || len(got) != 0 {
		t.Fatalf("load after clear: %+v, %v", got, err)
	}
	// Clearing twice must not fail.
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestMemoryStore_BehavesLikeDurableBackends(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Load()
	if err != nil || len(got) != 0 {
		t.Fatalf("fresh load: %+v, %v", got, err)
	}
	want := sampleHabits()
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = s.Load()
	if err != nil || !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: %+v, %v", got, err)
	}
	s.Corrupt()
	got, err = s.Load()
	if err != nil || len(got) != 0 {
		t.Fatalf("corrupt slot should read as empty: %+v, %v", got, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "log.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), UserID: 1, UserMessage: "hi", AssistantResponse: "hello", Proposals: 0}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), UserID: 2, UserMessage: "run daily", AssistantResponse: "noted", Proposals: 1}
	if err := rec.AppendInteraction(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendInteraction(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].UserID != 1 || events[1].UserID != 2 || events[1].Proposals != 1 {
		t.Fatalf("order or fields mismatch: %+v", events)
	}

	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}
