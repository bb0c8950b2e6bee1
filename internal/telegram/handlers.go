package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-coach/internal/analytics"
	"habit-coach/internal/auth"
	"habit-coach/internal/habit"
	"habit-coach/internal/onboarding"
)

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	b.rememberChat(userID, chatID)

	if !b.authSvc.IsAllowed(userID) {
		log.Printf("unauthorized access attempt by user %d (@%s)", userID, msg.From.UserName)
		user := auth.User{
			ID:        userID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		}
		b.mu.Lock()
		b.pending[userID] = user
		b.mu.Unlock()
		if b.pendingRepo != nil {
			if err := b.pendingRepo.Upsert(user); err != nil {
				log.Printf("failed to persist pending request: %v", err)
			}
		}
		b.sendMessage(chatID, "Your access request was sent for review.")
		b.notifyAdminRequest(userID, msg.From.UserName)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	b.handleChatTurn(ctx, userID, chatID, msg.Text)
}

func (b *Bot) handleChatTurn(ctx context.Context, userID, chatID int64, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	// First contact without /start: open the session implicitly so the
	// greeting precedes the first answer.
	if len(b.coach.Transcript(userID)) == 0 && b.coach.State(userID) != onboarding.StateConfirmed {
		b.sendMessage(chatID, b.coach.Begin(userID))
	}

	reply, added, err := b.coach.Submit(ctx, userID, text)
	switch {
	case errors.Is(err, onboarding.ErrBusy):
		b.sendMessage(chatID, "One moment - I'm still thinking about your last message.")
		return
	case errors.Is(err, onboarding.ErrConfirmed):
		b.sendMessage(chatID, "Your habits are already set up. Try /habits, /done or /week, or /reset to start over.")
		return
	case err != nil:
		log.Printf("chat turn failed for user %d: %v", userID, err)
		b.sendMessage(chatID, "Sorry, something went wrong.")
		return
	}

	out := habit.StripTags(reply)
	if out == "" {
		out = reply
	}
	b.sendMessage(chatID, out)

	if len(added) > 0 {
		b.sendMessage(chatID, fmt.Sprintf("Captured %d new habit(s), %d total. Send /review when you're ready.", len(added), len(b.coach.Proposals(userID))))
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if !b.tracker.Empty() {
			b.sendMessage(chatID, "You already track habits - see /habits. Use /reset if you want to start from scratch.")
			return
		}
		b.sendMessage(chatID, b.coach.Begin(userID))

	case "review":
		if err := b.coach.StartReview(userID); err != nil {
			if errors.Is(err, onboarding.ErrNoProposals) {
				b.sendMessage(chatID, "I haven't captured any habits yet. Tell me what you'd like to work on first!")
			} else {
				b.sendMessage(chatID, "Onboarding is already finished. See /habits.")
			}
			return
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Start tracking", cbConfirmHabits),
				tgbotapi.NewInlineKeyboardButtonData("Keep chatting", cbContinueChat),
			),
		)
		b.sendWithKeyboard(chatID, renderReview(b.coach.Proposals(userID)), kb)

	case "confirm":
		b.confirmHabits(userID, chatID)

	case "habits":
		b.sendMessage(chatID, renderDashboard(b.tracker.Habits(), b.tracker.Stats(time.Now()), time.Now()))

	case "done":
		b.handleDone(chatID, msg.CommandArguments())

	case "week":
		b.sendMessage(chatID, renderWeek(b.tracker.Week(time.Now())))

	case "reset":
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Yes, delete everything", cbResetYes),
				tgbotapi.NewInlineKeyboardButtonData("No, keep my habits", cbResetNo),
			),
		)
		b.sendWithKeyboard(chatID, "This deletes all your habits and progress. Are you sure?", kb)

	case "report":
		b.handleReport(chatID, userID)

	case "cancel":
		b.coach.Reset(userID)
		b.sendMessage(chatID, "Onboarding cancelled. Send /start whenever you want to try again.")

	default:
		b.sendMessage(chatID, "Commands: /start /review /confirm /habits /done /week /reset /cancel")
	}
}

func (b *Bot) handleDone(chatID int64, args string) {
	habits := b.tracker.Habits()
	if len(habits) == 0 {
		b.sendMessage(chatID, "No habits tracked yet. Send /start to begin onboarding.")
		return
	}

	arg := strings.TrimSpace(args)
	if arg == "" {
		b.sendMessage(chatID, renderDoneHint(habits, time.Now()))
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(habits) {
		b.sendMessage(chatID, fmt.Sprintf("Pick a number between 1 and %d, e.g. /done 1", len(habits)))
		return
	}

	updated, err := b.tracker.ToggleToday(habits[n-1].ID, time.Now())
	if err != nil {
		log.Printf("toggle failed: %v", err)
		b.sendMessage(chatID, "Sorry, something went wrong.")
		return
	}

	today := time.Now().Format(habit.DateLayout)
	if updated.Completions[today] {
		b.sendMessage(chatID, fmt.Sprintf("Nice! %q done for today. Streak: %d 🔥", updated.Name, updated.Streak))
	} else {
		b.sendMessage(chatID, fmt.Sprintf("%q unmarked for today. Streak: %d", updated.Name, updated.Streak))
	}
}

func (b *Bot) handleReport(chatID, userID int64) {
	if userID != b.adminUserID {
		return
	}
	if b.recorder == nil {
		b.sendMessage(chatID, "Onboarding logging is disabled, nothing to report.")
		return
	}
	events, err := b.recorder.LoadInteractions()
	if err != nil {
		log.Printf("failed to load onboarding log: %v", err)
		b.sendMessage(chatID, "Sorry, something went wrong.")
		return
	}
	stats := analytics.AnalyzeDailyLogs(events, time.Now())
	b.sendMessage(chatID, stats.GenerateReportSummary())
}

func (b *Bot) confirmHabits(userID, chatID int64) {
	batch, err := b.coach.Confirm(userID)
	if err != nil {
		if errors.Is(err, onboarding.ErrConfirmed) {
			b.sendMessage(chatID, "Already confirmed - see /habits.")
		} else {
			b.sendMessage(chatID, "Send /review first to look over your habits.")
		}
		return
	}
	if err := b.tracker.Adopt(batch); err != nil {
		log.Printf("failed to adopt habits: %v", err)
		b.sendMessage(chatID, "Sorry, I couldn't save your habits. Please try /confirm again.")
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("All set! Tracking %d habit(s) now! 🎉", len(batch)))
	b.sendMessage(chatID, renderDashboard(b.tracker.Habits(), b.tracker.Stats(time.Now()), time.Now()))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	b.rememberChat(userID, chatID)

	// Acknowledge so the client stops the spinner even if handling fails.
	if b.api != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Printf("failed to answer callback: %v", err)
		}
	}

	switch {
	case cb.Data == cbConfirmHabits:
		b.confirmHabits(userID, chatID)

	case cb.Data == cbContinueChat:
		if err := b.coach.Resume(userID); err != nil {
			b.sendMessage(chatID, "Onboarding is already finished. See /habits.")
			return
		}
		b.sendMessage(chatID, "Okay, tell me more about what you'd like to build!")

	case cb.Data == cbResetYes:
		if err := b.tracker.Reset(); err != nil {
			log.Printf("reset failed: %v", err)
			b.sendMessage(chatID, "Sorry, something went wrong.")
			return
		}
		b.coach.Reset(userID)
		b.sendMessage(chatID, "Everything cleared. Send /start to begin again.")

	case cb.Data == cbResetNo:
		b.sendMessage(chatID, "Reset cancelled, your habits are safe.")

	case strings.HasPrefix(cb.Data, cbApprovePrefix):
		b.handleApproval(userID, chatID, strings.TrimPrefix(cb.Data, cbApprovePrefix), true)

	case strings.HasPrefix(cb.Data, cbDenyPrefix):
		b.handleApproval(userID, chatID, strings.TrimPrefix(cb.Data, cbDenyPrefix), false)
	}
}

func (b *Bot) handleApproval(actorID, chatID int64, rawID string, approve bool) {
	if actorID != b.adminUserID {
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}
	b.mu.Lock()
	user, ok := b.pending[id]
	delete(b.pending, id)
	b.mu.Unlock()
	if !ok {
		user = auth.User{ID: id}
	}
	if b.pendingRepo != nil {
		if err := b.pendingRepo.Remove(id); err != nil {
			log.Printf("failed to drop pending request: %v", err)
		}
	}

	if !approve {
		b.sendMessage(chatID, fmt.Sprintf("Denied access for %d.", id))
		return
	}
	if err := b.authSvc.Upsert(user); err != nil {
		log.Printf("failed to persist allowlist entry: %v", err)
	}
	b.sendMessage(chatID, fmt.Sprintf("Approved access for %d.", id))

	b.mu.Lock()
	userChat, known := b.chats[id]
	b.mu.Unlock()
	if known {
		b.sendMessage(userChat, "You're in! Send /start and let's build some habits.")
	}
}

func (b *Bot) notifyAdminRequest(userID int64, username string) {
	if b.adminUserID == 0 {
		return
	}
	b.mu.Lock()
	adminChat, ok := b.chats[b.adminUserID]
	b.mu.Unlock()
	if !ok {
		adminChat = b.adminUserID
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Approve", fmt.Sprintf("%s%d", cbApprovePrefix, userID)),
			tgbotapi.NewInlineKeyboardButtonData("Deny", fmt.Sprintf("%s%d", cbDenyPrefix, userID)),
		),
	)
	b.sendWithKeyboard(adminChat, fmt.Sprintf("User %d (@%s) wants to use the habit coach.", userID, username), kb)
}

// RemindIncomplete nudges every known chat about habits still open
// today. Wired into the cron scheduler.
func (b *Bot) RemindIncomplete(ctx context.Context) error {
	habits := b.tracker.Habits()
	if len(habits) == 0 {
		return nil
	}
	today := time.Now().Format(habit.DateLayout)
	var open []string
	for _, h := range habits {
		if !h.Completions[today] {
			open = append(open, h.Name)
		}
	}
	if len(open) == 0 {
		return nil
	}

	text := fmt.Sprintf("⏰ Still on your list today: %s", strings.Join(open, ", "))
	b.mu.Lock()
	chats := make(map[int64]int64, len(b.chats))
	for u, c := range b.chats {
		chats[u] = c
	}
	b.mu.Unlock()
	for userID, chatID := range chats {
		if !b.authSvc.IsAllowed(userID) {
			continue
		}
		b.sendMessage(chatID, text)
	}
	return nil
}
