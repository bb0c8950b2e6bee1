package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type StoreBackend string

const (
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Storage
	StoreBackend      StoreBackend `env:"STORE_BACKEND" envDefault:"file"`
	HabitsFilePath    string       `env:"HABITS_FILE_PATH" envDefault:"data/habits.json"`
	HabitsDBPath      string       `env:"HABITS_DB_PATH" envDefault:"data/habits.db"`
	LogFilePath       string       `env:"LOG_FILE_PATH" envDefault:"logs/onboarding.jsonl"`
	AllowlistFilePath string       `env:"ALLOWLIST_FILE_PATH" envDefault:"data/allowlist.json"`
	PendingFilePath   string       `env:"PENDING_FILE_PATH" envDefault:"data/pending.json"`

	// HTTP API server
	ServerPort int `env:"SERVER_PORT" envDefault:"8080"`

	// Voice call provider (optional; call endpoints return 503 when unset)
	VoiceAPIURL      string `env:"VOICE_API_URL" envDefault:"https://api.vapi.ai"`
	VoiceAPIKey      string `env:"VOICE_API_KEY"`
	VoiceAssistantID string `env:"VOICE_ASSISTANT_ID"`

	// Reminders
	ReminderCron string `env:"REMINDER_CRON" envDefault:"0 18 * * *"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// ValidateLLM fails fast when the selected provider has no credentials,
// so the problem surfaces before any conversation is attempted.
func (c *Config) ValidateLLM() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return fmt.Errorf("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for provider %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLMProvider)
	}
	return nil
}
