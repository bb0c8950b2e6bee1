package telegram

import (
	"fmt"
	"strings"
	"time"

	"habit-coach/internal/habit"
)

func renderReview(proposals []habit.Extracted) string {
	var sb strings.Builder
	sb.WriteString("<b>Here's what I've got so far:</b>\n\n")
	for i, p := range proposals {
		sb.WriteString(fmt.Sprintf("%d. %s (%s, %s)\n", i+1, p.Name, p.Frequency, p.TimeOfDay))
	}
	sb.WriteString("\nStart tracking these, or keep chatting to add more?")
	return sb.String()
}

func renderDashboard(habits []habit.Habit, stats habit.Stats, now time.Time) string {
	if len(habits) == 0 {
		return "No habits yet. Send /start to begin onboarding."
	}
	today := now.Format(habit.DateLayout)

	var sb strings.Builder
	sb.WriteString("<b>My Habits</b>\n")
	sb.WriteString(fmt.Sprintf("Today: %d%% • Best streak: %d • Total: %d\n\n", stats.CompletionRate, stats.MaxStreak, stats.Total))
	for i, h := range habits {
		mark := "⭕"
		if h.Completions[today] {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s, %s)", i+1, mark, h.Name, h.Frequency, h.TimeOfDay))
		if h.Streak > 0 {
			sb.WriteString(fmt.Sprintf(" 🔥%d", h.Streak))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nToggle with /done <number>.")
	return sb.String()
}

func renderDoneHint(habits []habit.Habit, now time.Time) string {
	today := now.Format(habit.DateLayout)
	var sb strings.Builder
	sb.WriteString("Which one did you do?\n\n")
	for i, h := range habits {
		mark := "⭕"
		if h.Completions[today] {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, mark, h.Name))
	}
	sb.WriteString("\nReply with /done <number>.")
	return sb.String()
}

func renderWeek(week []habit.DaySummary) string {
	var sb strings.Builder
	sb.WriteString("<b>This week</b>\n")
	for _, d := range week {
		line := fmt.Sprintf("%s %s  %d/%d", d.Weekday, d.Date[8:], d.Completed, d.Total)
		if d.IsToday {
			line += " ← today"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
