package tracker

import (
	"errors"
	"testing"
	"time"

	"habit-coach/internal/habit"
	"habit-coach/internal/storage"
)

// failingStore rejects saves so write-through behavior can be observed.
type failingStore struct {
	*storage.MemoryStore
	failSave bool
}

func (f *failingStore) Save(habits []habit.Habit) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(habits)
}

func newTracker(t *testing.T) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	tr, err := New(store)
	if err != nil {
		t.Fatalf("init tracker: %v", err)
	}
	return tr, store
}

func adoptTwo(t *testing.T, tr *Tracker) []habit.Habit {
	t.Helper()
	batch := habit.PromoteAll([]habit.Extracted{
		{Name: "Run", Frequency: habit.FrequencyDaily, TimeOfDay: habit.TimeMorning},
		{Name: "Read", Frequency: habit.FrequencyWeekly, TimeOfDay: habit.TimeEvening},
	}, time.Now())
	if err := tr.Adopt(batch); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	return batch
}

func TestTracker_AdoptPersistsWriteThrough(t *testing.T) {
	tr, store := newTracker(t)
	adoptTwo(t, tr)

	persisted, err := store.Load()
	if err != nil {
		t.Fatalf("load from store: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("adopt did not persist: %+v", persisted)
	}

	// A fresh tracker over the same store sees the same list.
	tr2, err := New(store)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(tr2.Habits()) != 2 {
		t.Fatalf("reopened tracker lost habits")
	}
}

func TestTracker_TogglePersistsAndRecomputes(t *testing.T) {
	tr, store := newTracker(t)
	batch := adoptTwo(t, tr)

	today := time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
	got, err := tr.ToggleToday(batch[0].ID, today)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.Completions["2024-04-10"] || got.Streak != 1 {
		t.Fatalf("toggle result wrong: %+v", got)
	}

	persisted, _ := store.Load()
	for _, h := range persisted {
		if h.ID == batch[0].ID && (!h.Completions["2024-04-10"] || h.Streak != 1) {
			t.Fatalf("persisted habit stale: %+v", h)
		}
	}
}

func TestTracker_ToggleUnknownID(t *testing.T) {
	tr, _ := newTracker(t)
	adoptTwo(t, tr)
	if _, err := tr.Toggle("nope", "2024-04-10"); err == nil {
		t.Fatalf("expected error for unknown habit id")
	}
}

func TestTracker_FailedSaveLeavesMemoryUntouched(t *testing.T) {
	store := &failingStore{MemoryStore: storage.NewMemoryStore()}
	tr, err := New(store)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	batch := adoptTwo(t, tr)

	store.failSave = true
	if _, err := tr.Toggle(batch[0].ID, "2024-04-10"); err == nil {
		t.Fatalf("expected save failure to surface")
	}
	for _, h := range tr.Habits() {
		if h.Completions["2024-04-10"] {
			t.Fatalf("in-memory state mutated despite failed persist: %+v", h)
		}
	}
}

func TestTracker_ResetClearsEverything(t *testing.T) {
	tr, store := newTracker(t)
	adoptTwo(t, tr)
	if err := tr.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !tr.Empty() {
		t.Fatalf("tracker should be empty after reset")
	}
	persisted, _ := store.Load()
	if len(persisted) != 0 {
		t.Fatalf("store should be empty after reset: %+v", persisted)
	}
}

func TestTracker_HabitsReturnsCopies(t *testing.T) {
	tr, _ := newTracker(t)
	adoptTwo(t, tr)
	snap := tr.Habits()
	snap[0].Completions["2024-04-10"] = true
	for _, h := range tr.Habits() {
		if h.Completions["2024-04-10"] {
			t.Fatalf("internal state mutated via snapshot")
		}
	}
}

func TestTracker_StatsAndWeek(t *testing.T) {
	tr, _ := newTracker(t)
	batch := adoptTwo(t, tr)
	today := time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC) // Wednesday

	if _, err := tr.ToggleToday(batch[0].ID, today); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	s := tr.Stats(today)
	if s.Total != 2 || s.CompletedToday != 1 || s.CompletionRate != 50 || s.MaxStreak != 1 {
		t.Fatalf("stats wrong: %+v", s)
	}

	week := tr.Week(today)
	if len(week) != 7 || week[0].Date != "2024-04-08" {
		t.Fatalf("week window wrong: %+v", week)
	}
	if week[2].Completed != 1 || !week[2].IsToday {
		t.Fatalf("today cell wrong: %+v", week[2])
	}
}
