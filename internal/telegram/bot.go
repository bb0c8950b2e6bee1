package telegram

import (
	"context"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-coach/internal/auth"
	"habit-coach/internal/onboarding"
	"habit-coach/internal/pending"
	"habit-coach/internal/storage"
	"habit-coach/internal/tracker"
)

// Callback payloads for inline buttons.
const (
	cbConfirmHabits = "confirm_habits"
	cbContinueChat  = "continue_chat"
	cbResetYes      = "reset_yes"
	cbResetNo       = "reset_no"
	cbApprovePrefix = "approve:"
	cbDenyPrefix    = "deny:"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	authSvc     *auth.Service
	coach       *onboarding.Orchestrator
	tracker     *tracker.Tracker
	adminUserID int64
	parseMode   string
	pendingRepo pending.Repository
	recorder    storage.Recorder

	mu      sync.Mutex
	pending map[int64]auth.User
	// chats remembers the last chat per user so the daily reminder can
	// reach people who talked to the bot before.
	chats map[int64]int64
}

func New(
	botToken string,
	authSvc *auth.Service,
	coach *onboarding.Orchestrator,
	tr *tracker.Tracker,
	adminUserID int64,
	parseMode string,
	pendingRepo pending.Repository,
	recorder storage.Recorder,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := &Bot{
		api:         api,
		s:           botAPISender{api: api},
		authSvc:     authSvc,
		coach:       coach,
		tracker:     tr,
		adminUserID: adminUserID,
		parseMode:   parseMode,
		pendingRepo: pendingRepo,
		recorder:    recorder,
		pending:     make(map[int64]auth.User),
		chats:       make(map[int64]int64),
	}
	if pendingRepo != nil {
		users, err := pendingRepo.LoadAll()
		if err != nil {
			log.Printf("failed to load pending requests: %v", err)
		}
		for _, u := range users {
			b.pending[u.ID] = u
		}
	}
	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
			continue
		}
	}
}

func (b *Bot) rememberChat(userID, chatID int64) {
	b.mu.Lock()
	b.chats[userID] = chatID
	b.mu.Unlock()
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if b.parseMode != "" {
		msg.ParseMode = b.parseMode
	}
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if b.parseMode != "" {
		msg.ParseMode = b.parseMode
	}
	msg.ReplyMarkup = kb
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
