package habit

import (
	"reflect"
	"testing"
)

func habitWithCompletions(dates ...string) *Habit {
	h := &Habit{ID: "h1", Name: "Run", Frequency: FrequencyDaily, TimeOfDay: TimeMorning, Completions: map[string]bool{}}
	for _, d := range dates {
		h.Completions[d] = true
	}
	return h
}

func TestToggle_SetAndRecompute(t *testing.T) {
	h := habitWithCompletions("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04")
	Toggle(h, "2024-01-05")
	if !h.Completions["2024-01-05"] {
		t.Fatalf("toggle did not set the day")
	}
	if h.Streak != 5 {
		t.Fatalf("streak = %d, want 5", h.Streak)
	}
}

func TestToggle_BreakInChainStopsWalk(t *testing.T) {
	h := habitWithCompletions("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")

	// Untoggling a middle day breaks the chain counting backward from it.
	Toggle(h, "2024-01-03")
	if h.Completions["2024-01-03"] {
		t.Fatalf("day should be incomplete after toggle")
	}
	if h.Streak != 0 {
		t.Fatalf("streak = %d, want 0 (walk starts at the toggled day)", h.Streak)
	}

	// Recomputing from the most recent day now stops at the gap.
	if got := StreakFrom(h.Completions, "2024-01-05"); got != 2 {
		t.Fatalf("streak from 01-05 = %d, want 2", got)
	}
}

func TestToggle_UntoggledReferenceDayCountsZero(t *testing.T) {
	h := habitWithCompletions("2024-02-10")
	Toggle(h, "2024-02-11")
	Toggle(h, "2024-02-11")
	if h.Streak != 0 {
		t.Fatalf("streak = %d, want 0 when reference day ends up incomplete", h.Streak)
	}
}

func TestToggle_TwiceIsIdentity(t *testing.T) {
	h := habitWithCompletions("2024-03-01", "2024-03-02")
	h.Streak = StreakFrom(h.Completions, "2024-03-02")

	before := Habit{Streak: h.Streak, Completions: map[string]bool{}}
	for k, v := range h.Completions {
		before.Completions[k] = v
	}

	Toggle(h, "2024-03-03")
	Toggle(h, "2024-03-03")

	if h.Streak != before.Streak {
		t.Fatalf("streak not restored: %d vs %d", h.Streak, before.Streak)
	}
	if !reflect.DeepEqual(h.Completions, before.Completions) {
		t.Fatalf("completions not restored: %+v vs %+v", h.Completions, before.Completions)
	}
}

func TestToggle_NilCompletions(t *testing.T) {
	h := &Habit{ID: "x", Name: "Stretch"}
	Toggle(h, "2024-06-01")
	if !h.Completions["2024-06-01"] || h.Streak != 1 {
		t.Fatalf("toggle on nil map: %+v", h)
	}
}

func TestStreakFrom_CrossesMonthBoundary(t *testing.T) {
	c := map[string]bool{"2024-02-28": true, "2024-02-29": true, "2024-03-01": true}
	if got := StreakFrom(c, "2024-03-01"); got != 3 {
		t.Fatalf("streak = %d, want 3 across leap-month boundary", got)
	}
}

func TestStreakFrom_BadDate(t *testing.T) {
	if got := StreakFrom(map[string]bool{"oops": true}, "oops"); got != 0 {
		t.Fatalf("malformed date should count 0, got %d", got)
	}
}
