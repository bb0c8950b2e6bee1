package tracker

import (
	"fmt"
	"sync"
	"time"

	"habit-coach/internal/habit"
	"habit-coach/internal/storage"
)

// Tracker owns the confirmed habit list. Every mutation goes through the
// store first (write-through), so the durable slot and memory never
// disagree: a failed save leaves the in-memory list untouched.
type Tracker struct {
	mu     sync.Mutex
	store  storage.Store
	habits []habit.Habit
}

// New loads the previously saved list from the store. A missing or
// corrupt slot yields an empty tracker, not an error.
func New(store storage.Store) (*Tracker, error) {
	habits, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	return &Tracker{store: store, habits: habits}, nil
}

// Habits returns a snapshot of the tracked list.
func (t *Tracker) Habits() []habit.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneAll(t.habits)
}

// Empty reports whether anything is tracked yet.
func (t *Tracker) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.habits) == 0
}

// Adopt replaces the tracked list with a confirmed onboarding batch.
func (t *Tracker) Adopt(batch []habit.Habit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.Save(batch); err != nil {
		return fmt.Errorf("persist habits: %w", err)
	}
	t.habits = cloneAll(batch)
	return nil
}

// Toggle inverts one day's completion for the habit with the given id,
// recomputes its streak and persists the full list. The updated habit is
// returned.
func (t *Tracker) Toggle(id, date string) (habit.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i := range t.habits {
		if t.habits[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return habit.Habit{}, fmt.Errorf("unknown habit %q", id)
	}

	next := cloneAll(t.habits)
	habit.Toggle(&next[idx], date)

	if err := t.store.Save(next); err != nil {
		return habit.Habit{}, fmt.Errorf("persist habits: %w", err)
	}
	t.habits = next
	return clone(next[idx]), nil
}

// ToggleToday toggles the habit for the current calendar day.
func (t *Tracker) ToggleToday(id string, now time.Time) (habit.Habit, error) {
	return t.Toggle(id, now.Format(habit.DateLayout))
}

// Reset discards the entire tracked set. Irreversible.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.Clear(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	t.habits = []habit.Habit{}
	return nil
}

// Stats derives the dashboard header for the given day.
func (t *Tracker) Stats(today time.Time) habit.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return habit.ComputeStats(t.habits, today)
}

// Week derives the Monday-start weekly summary containing today.
func (t *Tracker) Week(today time.Time) []habit.DaySummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return habit.Week(t.habits, today)
}

func clone(h habit.Habit) habit.Habit {
	out := h
	out.Completions = make(map[string]bool, len(h.Completions))
	for k, v := range h.Completions {
		out.Completions[k] = v
	}
	return out
}

func cloneAll(hs []habit.Habit) []habit.Habit {
	out := make([]habit.Habit, 0, len(hs))
	for _, h := range hs {
		out = append(out, clone(h))
	}
	return out
}
