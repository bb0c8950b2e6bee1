package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"habit-coach/internal/config"
	"habit-coach/internal/habit"
	"habit-coach/internal/storage"
	"habit-coach/internal/tracker"
)

// ListHabitsParams is empty, but the SDK wants a struct.
type ListHabitsParams struct{}

// ToggleHabitParams identifies a habit and an optional day to flip.
type ToggleHabitParams struct {
	HabitID string `json:"habit_id" mcp:"ID of the habit to toggle"`
	Date    string `json:"date,omitempty" mcp:"day to toggle in YYYY-MM-DD format (default: today)"`
}

// AddHabitParams describes a habit to start tracking.
type AddHabitParams struct {
	Name      string `json:"name" mcp:"short, specific habit name, e.g. 'Drink 8 glasses of water'"`
	Frequency string `json:"frequency" mcp:"one of: daily, weekly, custom"`
	TimeOfDay string `json:"time_of_day" mcp:"one of: morning, afternoon, evening, anytime"`
}

type StatsParams struct{}

// HabitMCPServer exposes the habit tracker to MCP clients.
type HabitMCPServer struct {
	tracker *tracker.Tracker
}

func textResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(format string, args ...any) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("❌ "+format, args...)}},
		IsError: true,
	}
}

func (s *HabitMCPServer) ListHabits(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListHabitsParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.tracker.Habits())
}

func (s *HabitMCPServer) ToggleHabit(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ToggleHabitParams]) (*mcp.CallToolResultFor[any], error) {
	date := params.Arguments.Date
	if date == "" {
		date = time.Now().Format(habit.DateLayout)
	}
	if _, err := time.Parse(habit.DateLayout, date); err != nil {
		return errorResult("invalid date %q, expected YYYY-MM-DD", params.Arguments.Date), nil
	}

	updated, err := s.tracker.Toggle(params.Arguments.HabitID, date)
	if err != nil {
		return errorResult("failed to toggle habit: %v", err), nil
	}
	return textResult(updated)
}

func (s *HabitMCPServer) AddHabit(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AddHabitParams]) (*mcp.CallToolResultFor[any], error) {
	e := habit.Extracted{
		Name:      params.Arguments.Name,
		Frequency: habit.Frequency(params.Arguments.Frequency),
		TimeOfDay: habit.TimeOfDay(params.Arguments.TimeOfDay),
	}
	if e.Name == "" || !habit.ValidFrequency(e.Frequency) || !habit.ValidTimeOfDay(e.TimeOfDay) {
		return errorResult("invalid habit: name required, frequency one of daily/weekly/custom, time one of morning/afternoon/evening/anytime"), nil
	}

	batch := habit.PromoteAll([]habit.Extracted{e}, time.Now())
	if err := s.tracker.Adopt(batch); err != nil {
		return errorResult("failed to save habit: %v", err), nil
	}
	return textResult(batch[0])
}

func (s *HabitMCPServer) HabitStats(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[StatsParams]) (*mcp.CallToolResultFor[any], error) {
	now := time.Now()
	return textResult(map[string]any{
		"stats": s.tracker.Stats(now),
		"week":  s.tracker.Week(now),
	})
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	var store storage.Store
	var err error
	if cfg.StoreBackend == config.StoreSQLite {
		store, err = storage.NewSQLiteStore(cfg.HabitsDBPath)
	} else {
		store, err = storage.NewFileStore(cfg.HabitsFilePath)
	}
	if err != nil {
		log.Fatalf("❌ failed to init habit store: %v", err)
	}

	tr, err := tracker.New(store)
	if err != nil {
		log.Fatalf("❌ failed to load habits: %v", err)
	}

	log.Printf("🚀 Starting Habit Coach MCP Server (backend: %s)", cfg.StoreBackend)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "habit-coach-mcp",
		Version: "1.0.0",
	}, nil)

	habitServer := &HabitMCPServer{tracker: tr}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_habits",
		Description: "Lists all tracked habits with their streaks and completion history",
	}, habitServer.ListHabits)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_habit",
		Description: "Toggles a habit's completion for a given day and recomputes its streak",
	}, habitServer.ToggleHabit)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_habit",
		Description: "Starts tracking a new habit with the given name, frequency and time of day",
	}, habitServer.AddHabit)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "habit_stats",
		Description: "Returns dashboard statistics and the current week's completion overview",
	}, habitServer.HabitStats)

	log.Printf("📋 Registered %d tools: list_habits, toggle_habit, add_habit, habit_stats", 4)
	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
