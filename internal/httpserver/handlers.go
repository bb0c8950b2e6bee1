package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habit-coach/internal/habit"
	"habit-coach/internal/llm"
	"habit-coach/internal/onboarding"
	"habit-coach/internal/tracker"
	"habit-coach/internal/voice"
)

// voiceSessionID keys the onboarding transcript fed by voice calls.
// Web voice callers are anonymous, so they all share one session.
const voiceSessionID int64 = 0

type Handlers struct {
	llm          llm.Client
	systemPrompt string
	tracker      *tracker.Tracker
	coach        *onboarding.Orchestrator
	dispatcher   *voice.Dispatcher
	call         *voice.Controller
	logger       *zap.Logger
}

func NewHandlers(client llm.Client, systemPrompt string, tr *tracker.Tracker, coach *onboarding.Orchestrator, session voice.Session, logger *zap.Logger) *Handlers {
	if systemPrompt == "" {
		systemPrompt = onboarding.DefaultSystemPrompt
	}
	h := &Handlers{
		llm:          client,
		systemPrompt: systemPrompt,
		tracker:      tr,
		coach:        coach,
		logger:       logger,
	}
	if session != nil {
		h.call = voice.NewController(session)
	}
	h.dispatcher = voice.NewDispatcher(voice.Events{
		OnCallStart: func() {
			logger.Info("voice call started")
		},
		OnCallEnd: func() {
			logger.Info("voice call ended")
		},
		OnTranscript: func(text string) {
			added := coach.Ingest(voiceSessionID, text)
			logger.Info("voice transcript ingested",
				zap.Int("chars", len(text)),
				zap.Int("habits_added", len(added)),
			)
		},
		OnError: func(err error) {
			logger.Warn("voice provider reported an error", zap.Error(err))
		},
	})
	return h
}

func (h *Handlers) Ready(c *gin.Context) {
	if h.llm == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "llm_not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// Chat is a stateless coaching turn: the client sends the whole
// conversation and gets back the assistant reply plus any habits the
// reply declared.
func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if h.llm == nil {
		h.logger.Warn("chat requested but no LLM is configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "LLM API key not configured"})
		return
	}

	messages := make([]llm.Message, 0, len(req.Messages)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: h.systemPrompt})
	messages = append(messages, req.Messages...)

	resp, err := h.llm.Generate(c.Request.Context(), messages)
	if err != nil {
		h.logger.Error("chat completion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": resp.Content,
		"habits":  habit.Extract(resp.Content),
	})
}

func (h *Handlers) ListHabits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"habits": h.tracker.Habits()})
}

type toggleRequest struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

func (h *Handlers) ToggleHabit(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format(habit.DateLayout)
	}
	if _, err := time.Parse(habit.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	updated, err := h.tracker.Toggle(req.ID, date)
	if err != nil {
		h.logger.Warn("toggle failed",
			zap.String("habit_id", req.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": updated})
}

type confirmRequest struct {
	Habits []habit.Extracted `json:"habits"`
}

// ConfirmHabits promotes client-side proposals into tracked habits.
// The web UI extracts tags itself and sends the parsed list back once
// the user confirms the review screen.
func (h *Handlers) ConfirmHabits(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Habits) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habits required"})
		return
	}
	for _, e := range req.Habits {
		if e.Name == "" || !habit.ValidFrequency(e.Frequency) || !habit.ValidTimeOfDay(e.TimeOfDay) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit proposal"})
			return
		}
	}

	batch := habit.PromoteAll(req.Habits, time.Now())
	if err := h.tracker.Adopt(batch); err != nil {
		h.logger.Error("failed to adopt habits", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save habits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": h.tracker.Habits()})
}

func (h *Handlers) Stats(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"stats": h.tracker.Stats(now),
		"week":  h.tracker.Week(now),
	})
}

func (h *Handlers) Reset(c *gin.Context) {
	if err := h.tracker.Reset(); err != nil {
		h.logger.Error("reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset"})
		return
	}
	if h.coach != nil {
		h.coach.Reset(voiceSessionID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StartCall asks the provider to open a voice onboarding call. The
// transcripts arrive asynchronously through VoiceEvent.
func (h *Handlers) StartCall(c *gin.Context) {
	if h.call == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice calls not configured"})
		return
	}
	if err := h.call.Start(c.Request.Context()); err != nil {
		if errors.Is(err, voice.ErrCallActive) {
			c.JSON(http.StatusConflict, gin.H{"error": "call already active"})
			return
		}
		h.logger.Error("failed to start voice call", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start call"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "muted": false})
}

func (h *Handlers) StopCall(c *gin.Context) {
	if h.call == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice calls not configured"})
		return
	}
	if err := h.call.Stop(); err != nil {
		h.logger.Error("failed to stop voice call", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop call"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": false, "muted": false})
}

// ToggleCallMute flips the microphone on the running call.
func (h *Handlers) ToggleCallMute(c *gin.Context) {
	if h.call == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice calls not configured"})
		return
	}
	if err := h.call.ToggleMute(); err != nil {
		if errors.Is(err, voice.ErrNoCall) {
			c.JSON(http.StatusConflict, gin.H{"error": "no active call"})
			return
		}
		h.logger.Error("failed to toggle mute", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle mute"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": h.call.Active(), "muted": h.call.Muted()})
}

func (h *Handlers) CallState(c *gin.Context) {
	if h.call == nil {
		c.JSON(http.StatusOK, gin.H{"configured": false, "active": false, "muted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": true, "active": h.call.Active(), "muted": h.call.Muted()})
}

// VoiceEvent receives provider webhooks for voice onboarding calls.
// Only final transcripts feed the session; lifecycle and volume events
// are acknowledged and logged.
func (h *Handlers) VoiceEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	if err := h.dispatcher.DispatchJSON(body); err != nil {
		h.logger.Warn("voice event rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"proposals": len(h.coach.Proposals(voiceSessionID)),
	})
}
