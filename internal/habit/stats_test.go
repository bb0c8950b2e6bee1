package habit

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestComputeStats_EmptyListIsZeroNotNaN(t *testing.T) {
	s := ComputeStats(nil, date(2024, time.May, 1))
	if s.Total != 0 || s.CompletedToday != 0 || s.CompletionRate != 0 || s.MaxStreak != 0 {
		t.Fatalf("empty stats should be all zero: %+v", s)
	}
}

func TestComputeStats_RateRounds(t *testing.T) {
	today := date(2024, time.May, 1)
	key := today.Format(DateLayout)
	habits := []Habit{
		{ID: "a", Completions: map[string]bool{key: true}, Streak: 3},
		{ID: "b", Completions: map[string]bool{}, Streak: 7},
		{ID: "c", Completions: map[string]bool{key: true}, Streak: 1},
	}
	s := ComputeStats(habits, today)
	if s.Total != 3 || s.CompletedToday != 2 {
		t.Fatalf("counts wrong: %+v", s)
	}
	if s.CompletionRate != 67 { // round(2/3*100)
		t.Fatalf("rate = %d, want 67", s.CompletionRate)
	}
	if s.MaxStreak != 7 {
		t.Fatalf("max streak = %d, want 7", s.MaxStreak)
	}
}

func TestWeek_MondayStart(t *testing.T) {
	// 2024-05-01 is a Wednesday; its week starts Monday 2024-04-29.
	today := date(2024, time.May, 1)
	habits := []Habit{
		{ID: "a", Completions: map[string]bool{"2024-04-29": true, "2024-05-01": true}},
		{ID: "b", Completions: map[string]bool{"2024-05-01": true}},
	}
	week := Week(habits, today)
	if len(week) != 7 {
		t.Fatalf("want 7 days, got %d", len(week))
	}
	if week[0].Date != "2024-04-29" || week[0].Weekday != "Mon" {
		t.Fatalf("week should start Monday: %+v", week[0])
	}
	if week[6].Date != "2024-05-05" {
		t.Fatalf("week should end Sunday: %+v", week[6])
	}
	if week[0].Completed != 1 || week[0].Total != 2 {
		t.Fatalf("monday counts wrong: %+v", week[0])
	}
	if !week[2].IsToday || week[2].Completed != 2 {
		t.Fatalf("wednesday should be today with 2 completions: %+v", week[2])
	}
}

func TestWeek_SundayBelongsToPrecedingMondayWeek(t *testing.T) {
	// 2024-05-05 is a Sunday; the Monday of its week is 2024-04-29.
	week := Week(nil, date(2024, time.May, 5))
	if week[0].Date != "2024-04-29" {
		t.Fatalf("sunday rolled into wrong week: %+v", week[0])
	}
}

func TestPromote_InitializesTracking(t *testing.T) {
	now := date(2024, time.May, 1)
	hs := PromoteAll([]Extracted{
		{Name: "Run", Frequency: FrequencyDaily, TimeOfDay: TimeMorning},
		{Name: "Read", Frequency: FrequencyWeekly, TimeOfDay: TimeEvening},
	}, now)
	if len(hs) != 2 {
		t.Fatalf("want 2 habits, got %d", len(hs))
	}
	if hs[0].ID == "" || hs[0].ID == hs[1].ID {
		t.Fatalf("ids must be unique and non-empty: %q %q", hs[0].ID, hs[1].ID)
	}
	for _, h := range hs {
		if h.Streak != 0 || len(h.Completions) != 0 || h.Completions == nil {
			t.Fatalf("tracking fields not initialized: %+v", h)
		}
		if !h.CreatedAt.Equal(now.UTC()) {
			t.Fatalf("createdAt mismatch: %v", h.CreatedAt)
		}
	}
}
