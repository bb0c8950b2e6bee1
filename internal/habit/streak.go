package habit

import "time"

// Toggle inverts the completion flag for date (a DateLayout key) and
// recomputes the cached streak in the same step so the two never diverge.
// Toggling the same date twice restores both fields exactly.
func Toggle(h *Habit, date string) {
	if h.Completions == nil {
		h.Completions = map[string]bool{}
	}
	if h.Completions[date] {
		delete(h.Completions, date)
	} else {
		h.Completions[date] = true
	}
	h.Streak = StreakFrom(h.Completions, date)
}

// StreakFrom counts consecutive completed days walking backward from the
// given date. The walk starts at date itself, so an incomplete reference
// day yields zero. The reference date is whatever day was last toggled,
// not necessarily today.
func StreakFrom(completions map[string]bool, date string) int {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	streak := 0
	for completions[day.Format(DateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
