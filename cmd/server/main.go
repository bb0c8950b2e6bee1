package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"habit-coach/internal/config"
	"habit-coach/internal/httpserver"
	"habit-coach/internal/llm"
	"habit-coach/internal/onboarding"
	"habit-coach/internal/storage"
	"habit-coach/internal/tracker"
	"habit-coach/internal/voice"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: .env file not found: %v\n", err)
	}

	cfg := config.New()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting habit-coach API server...",
		zap.Int("port", cfg.ServerPort),
		zap.String("store_backend", string(cfg.StoreBackend)),
		zap.String("llm_provider", string(cfg.LLMProvider)),
	)

	var store storage.Store
	if cfg.StoreBackend == config.StoreSQLite {
		store, err = storage.NewSQLiteStore(cfg.HabitsDBPath)
	} else {
		store, err = storage.NewFileStore(cfg.HabitsFilePath)
	}
	if err != nil {
		logger.Fatal("failed to init habit store", zap.Error(err))
	}

	tr, err := tracker.New(store)
	if err != nil {
		logger.Fatal("failed to load habits", zap.Error(err))
	}

	// The API keeps serving habit data without an LLM; only /api/chat
	// needs one.
	var llmClient llm.Client
	factory := &llm.Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
	}
	if client, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel); err != nil {
		logger.Warn("LLM client unavailable, /api/chat disabled", zap.Error(err))
	} else {
		llmClient = client
	}

	systemPrompt := ""
	if cfg.SystemPromptPath != "" {
		if data, err := os.ReadFile(cfg.SystemPromptPath); err == nil {
			systemPrompt = string(data)
		}
	}

	var session voice.Session
	if cfg.VoiceAPIKey != "" && cfg.VoiceAssistantID != "" {
		session = voice.NewProviderSession(cfg.VoiceAPIURL, cfg.VoiceAPIKey, cfg.VoiceAssistantID)
		logger.Info("voice call provider configured", zap.String("url", cfg.VoiceAPIURL))
	} else {
		logger.Info("no voice call provider configured, call endpoints disabled")
	}

	coach := onboarding.New(llmClient, systemPrompt, nil)
	handlers := httpserver.NewHandlers(llmClient, systemPrompt, tr, coach, session, logger)
	router := httpserver.NewRouter(handlers, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
