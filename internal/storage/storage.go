package storage

import (
	"time"

	"habit-coach/internal/habit"
)

// Store is the single-slot durable home of the tracked habit list.
// Save replaces the whole list, Load returns what was last saved (an
// empty list when nothing was stored or the stored value cannot be
// parsed) and Clear irreversibly drops the slot. A single logical
// writer is assumed; implementations only guard their own handle.
type Store interface {
	Load() ([]habit.Habit, error)
	Save(habits []habit.Habit) error
	Clear() error
}

// Event records one onboarding interaction: the user's message, the
// assistant's reply and how many proposals were accumulated so far.
// Events are expected to be appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	UserID            int64     `json:"user_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	Proposals         int       `json:"proposals"`
}

// Recorder abstracts persistence of onboarding transcripts.
// Implementations can be file-based, database, etc.
// LoadInteractions should return events in chronological order.
// AppendInteraction should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
