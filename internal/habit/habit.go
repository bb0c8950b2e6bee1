package habit

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeAnytime   TimeOfDay = "anytime"
)

// DateLayout is the calendar-day key format used in Completions.
const DateLayout = "2006-01-02"

// Habit is a confirmed, tracked routine. Streak is a denormalized
// projection of Completions and must only be written together with it
// (see Toggle).
type Habit struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Frequency   Frequency       `json:"frequency"`
	TimeOfDay   TimeOfDay       `json:"timeOfDay"`
	CreatedAt   time.Time       `json:"createdAt"`
	Streak      int             `json:"streak"`
	Completions map[string]bool `json:"completions"`
}

// Extracted is a provisional habit proposal parsed from assistant text.
// It has no identity and no completion history until confirmed.
type Extracted struct {
	Name      string    `json:"name"`
	Frequency Frequency `json:"frequency"`
	TimeOfDay TimeOfDay `json:"timeOfDay"`
}

func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

func ValidTimeOfDay(t TimeOfDay) bool {
	switch t {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeAnytime:
		return true
	}
	return false
}

// Promote converts an accepted proposal into a tracked habit with a fresh
// identity, a zero streak and an empty completion history.
func Promote(e Extracted, now time.Time) Habit {
	return Habit{
		ID:          uuid.NewString(),
		Name:        e.Name,
		Frequency:   e.Frequency,
		TimeOfDay:   e.TimeOfDay,
		CreatedAt:   now.UTC(),
		Streak:      0,
		Completions: map[string]bool{},
	}
}

// PromoteAll promotes a batch of proposals in order.
func PromoteAll(es []Extracted, now time.Time) []Habit {
	out := make([]Habit, 0, len(es))
	for _, e := range es {
		out = append(out, Promote(e, now))
	}
	return out
}
