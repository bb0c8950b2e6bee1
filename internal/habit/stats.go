package habit

import (
	"math"
	"time"
)

// Stats is the dashboard header: today's completion state across all
// tracked habits.
type Stats struct {
	Total          int `json:"total"`
	CompletedToday int `json:"completedToday"`
	CompletionRate int `json:"completionRate"`
	MaxStreak      int `json:"maxStreak"`
}

// DaySummary is one cell of the weekly view.
type DaySummary struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	IsToday   bool   `json:"isToday"`
}

// ComputeStats derives the dashboard numbers for the given day. The
// completion rate is defined as 0 for an empty habit list.
func ComputeStats(habits []Habit, today time.Time) Stats {
	s := Stats{Total: len(habits)}
	key := today.Format(DateLayout)
	for _, h := range habits {
		if h.Completions[key] {
			s.CompletedToday++
		}
		if h.Streak > s.MaxStreak {
			s.MaxStreak = h.Streak
		}
	}
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedToday) / float64(s.Total) * 100))
	}
	return s
}

// Week returns the Monday-start week containing today, one summary per
// day with completed-vs-total counts.
func Week(habits []Habit, today time.Time) []DaySummary {
	start := startOfWeek(today)
	todayKey := today.Format(DateLayout)
	out := make([]DaySummary, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(DateLayout)
		d := DaySummary{
			Date:    key,
			Weekday: day.Format("Mon"),
			Total:   len(habits),
			IsToday: key == todayKey,
		}
		for _, h := range habits {
			if h.Completions[key] {
				d.Completed++
			}
		}
		out = append(out, d)
	}
	return out
}

func startOfWeek(t time.Time) time.Time {
	// time.Weekday counts Sunday as 0; shift so Monday starts the week.
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
}
