package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"habit-coach/internal/auth"
	"habit-coach/internal/config"
	"habit-coach/internal/llm"
	"habit-coach/internal/onboarding"
	"habit-coach/internal/pending"
	"habit-coach/internal/scheduler"
	"habit-coach/internal/storage"
	"habit-coach/internal/telegram"
	"habit-coach/internal/tracker"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if err := cfg.ValidateLLM(); err != nil {
		log.Fatalf("llm configuration invalid: %v", err)
	}

	var allowRepo auth.Repository
	if cfg.AllowlistFilePath != "" {
		repo, err := auth.NewFileRepository(cfg.AllowlistFilePath)
		if err != nil {
			log.Printf("failed to init allowlist repo: %v", err)
		} else {
			allowRepo = repo
		}
	}

	authSvc, err := auth.NewWithRepo(allowRepo, cfg.AllowedUsers)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to init habit store: %v", err)
	}

	tr, err := tracker.New(store)
	if err != nil {
		log.Fatalf("failed to load habits: %v", err)
	}

	factory := &llm.Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
	}
	llmClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init onboarding recorder: %v", err)
		} else {
			rec = fr
		}
	}

	coach := onboarding.New(llmClient, readSystemPrompt(cfg.SystemPromptPath), rec)

	var pRepo pending.Repository
	if cfg.PendingFilePath != "" {
		pr, err := pending.NewFileRepository(cfg.PendingFilePath)
		if err != nil {
			log.Printf("failed to init pending repo: %v", err)
		} else {
			pRepo = pr
		}
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		authSvc,
		coach,
		tr,
		cfg.AdminUserID,
		cfg.MessageParseMode,
		pRepo,
		rec,
	)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if cfg.ReminderCron != "" {
		sched := scheduler.New()
		sched.SetRemindFunction(bot.RemindIncomplete)
		if err := sched.Start(cfg.ReminderCron); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	bot.Start(context.Background())
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StoreBackend == config.StoreSQLite {
		return storage.NewSQLiteStore(cfg.HabitsDBPath)
	}
	return storage.NewFileStore(cfg.HabitsFilePath)
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}
