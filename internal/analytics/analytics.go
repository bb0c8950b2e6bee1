package analytics

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"habit-coach/internal/storage"
)

// DailyStats summarizes one day of onboarding conversations.
type DailyStats struct {
	Date            string              `json:"date"`
	TotalMessages   int                 `json:"total_messages"`
	UniqueUsers     int                 `json:"unique_users"`
	HabitsProposed  int                 `json:"habits_proposed"`
	RepliesWithTags int                 `json:"replies_with_tags"`
	UserStats       map[int64]UserStats `json:"user_stats"`
}

// UserStats summarizes one user's onboarding activity for the day.
type UserStats struct {
	UserID         int64 `json:"user_id"`
	Messages       int   `json:"messages"`
	HabitsProposed int   `json:"habits_proposed"`
}

var tagPattern = regexp.MustCompile(`\[HABIT:[^\]]*\]`)

// AnalyzeDailyLogs filters the recorded events down to the given day
// and aggregates message and proposal counts.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:      startOfDay.Format("2006-01-02"),
		UserStats: make(map[int64]UserStats),
	}

	uniqueUsers := make(map[int64]bool)

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}

		stats.TotalMessages++
		uniqueUsers[event.UserID] = true

		userStat, exists := stats.UserStats[event.UserID]
		if !exists {
			userStat = UserStats{UserID: event.UserID}
		}
		userStat.Messages++

		tags := tagPattern.FindAllString(event.AssistantResponse, -1)
		if len(tags) > 0 {
			stats.RepliesWithTags++
			stats.HabitsProposed += len(tags)
			userStat.HabitsProposed += len(tags)
		}

		stats.UserStats[event.UserID] = userStat
	}

	stats.UniqueUsers = len(uniqueUsers)
	return stats
}

// GenerateReportSummary renders the stats as a short admin-facing text.
func (ds *DailyStats) GenerateReportSummary() string {
	summary := fmt.Sprintf(`Onboarding activity for %s:

- Messages: %d
- Unique users: %d
- Habits proposed: %d (in %d replies)

`, ds.Date, ds.TotalMessages, ds.UniqueUsers, ds.HabitsProposed, ds.RepliesWithTags)

	summary += fmt.Sprintf("Per user (%d users):\n", len(ds.UserStats))
	for userID, userStat := range ds.UserStats {
		summary += fmt.Sprintf("- User %d: %d messages", userID, userStat.Messages)
		if userStat.HabitsProposed > 0 {
			summary += fmt.Sprintf(", %d habits proposed", userStat.HabitsProposed)
		}
		summary += "\n"
	}

	return summary
}

// ToJSON serializes the stats for detailed inspection.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
