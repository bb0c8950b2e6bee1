package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"habit-coach/internal/habit"
	"habit-coach/internal/history"
	"habit-coach/internal/llm"
	"habit-coach/internal/storage"
)

// State of a user's onboarding conversation.
type State int

const (
	StateCollecting State = iota
	StateReviewing
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateReviewing:
		return "reviewing"
	case StateConfirmed:
		return "confirmed"
	}
	return "unknown"
}

var (
	// ErrBusy is returned while a previous assistant request is still in
	// flight. There is no queueing; the caller simply retries later.
	ErrBusy = errors.New("a request is already in flight")
	// ErrNoProposals guards review/confirm before anything was extracted.
	ErrNoProposals = errors.New("no habit proposals accumulated yet")
	// ErrConfirmed marks a finished session.
	ErrConfirmed = errors.New("onboarding already confirmed")
)

type session struct {
	state     State
	proposals []habit.Extracted
	busy      bool
}

// Orchestrator drives the conversational onboarding for every user:
// each turn goes to the assistant with the full transcript, the reply is
// scanned for habit tags and valid proposals accumulate monotonically
// until the user confirms. Text chat and voice transcripts are two
// front-ends over the same accumulation path.
type Orchestrator struct {
	client       llm.Client
	systemPrompt string
	transcripts  *history.Manager
	recorder     storage.Recorder
	now          func() time.Time

	mu       sync.Mutex
	sessions map[int64]*session
}

func New(client llm.Client, systemPrompt string, recorder storage.Recorder) *Orchestrator {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Orchestrator{
		client:       client,
		systemPrompt: systemPrompt,
		transcripts:  history.NewManager(),
		recorder:     recorder,
		now:          time.Now,
		sessions:     make(map[int64]*session),
	}
}

func (o *Orchestrator) session(userID int64) *session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[userID]
	if !ok {
		s = &session{state: StateCollecting}
		o.sessions[userID] = s
	}
	return s
}

// Begin opens (or reopens) a session and returns the greeting, which is
// recorded as the first assistant turn.
func (o *Orchestrator) Begin(userID int64) string {
	o.mu.Lock()
	o.sessions[userID] = &session{state: StateCollecting}
	o.mu.Unlock()
	o.transcripts.Reset(userID)
	o.transcripts.AppendAssistant(userID, Greeting)
	return Greeting
}

// Submit runs one text turn: append the user message, ask the assistant
// with the full transcript, append its reply and accumulate any valid
// proposals found in it. On assistant failure a fixed apology becomes
// the assistant turn and the proposal set is left untouched; the user
// may simply submit again.
func (o *Orchestrator) Submit(ctx context.Context, userID int64, text string) (reply string, added []habit.Extracted, err error) {
	s := o.session(userID)

	o.mu.Lock()
	if s.state == StateConfirmed {
		o.mu.Unlock()
		return "", nil, ErrConfirmed
	}
	if s.busy {
		o.mu.Unlock()
		return "", nil, ErrBusy
	}
	s.busy = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		s.busy = false
		o.mu.Unlock()
	}()

	o.transcripts.AppendUser(userID, text)

	msgs := make([]llm.Message, 0, o.transcripts.Len(userID)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: o.systemPrompt})
	msgs = append(msgs, o.transcripts.Get(userID)...)

	resp, genErr := o.client.Generate(ctx, msgs)
	if genErr != nil {
		log.Printf("assistant call failed for user %d: %v", userID, genErr)
		o.transcripts.AppendAssistant(userID, Apology)
		return Apology, nil, nil
	}

	o.transcripts.AppendAssistant(userID, resp.Content)
	added = o.accumulate(s, resp.Content)
	o.record(userID, text, resp.Content)
	return resp.Content, added, nil
}

// Ingest feeds assistant-authored text (a chat reply or a finalized
// voice utterance) through extraction and accumulates the results. It
// returns the proposals this text added.
func (o *Orchestrator) Ingest(userID int64, text string) []habit.Extracted {
	s := o.session(userID)
	o.mu.Lock()
	if s.state == StateConfirmed {
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()
	added := o.accumulate(s, text)
	o.record(userID, "[voice]", text)
	return added
}

func (o *Orchestrator) accumulate(s *session, text string) []habit.Extracted {
	added := habit.Extract(text)
	if len(added) == 0 {
		return nil
	}
	o.mu.Lock()
	s.proposals = append(s.proposals, added...)
	o.mu.Unlock()
	return added
}

func (o *Orchestrator) record(userID int64, userMsg, assistantMsg string) {
	if o.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         o.now().UTC(),
		UserID:            userID,
		UserMessage:       userMsg,
		AssistantResponse: assistantMsg,
		Proposals:         len(o.Proposals(userID)),
	}
	if err := o.recorder.AppendInteraction(ev); err != nil {
		log.Printf("failed to record interaction: %v", err)
	}
}

// Proposals returns a copy of the accumulated proposals in order.
func (o *Orchestrator) Proposals(userID int64) []habit.Extracted {
	s := o.session(userID)
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]habit.Extracted, len(s.proposals))
	copy(out, s.proposals)
	return out
}

// State reports where the user's session is.
func (o *Orchestrator) State(userID int64) State {
	s := o.session(userID)
	o.mu.Lock()
	defer o.mu.Unlock()
	return s.state
}

// StartReview moves collecting → reviewing. At least one proposal must
// exist before the summary can be shown.
func (o *Orchestrator) StartReview(userID int64) error {
	s := o.session(userID)
	o.mu.Lock()
	defer o.mu.Unlock()
	if s.state == StateConfirmed {
		return ErrConfirmed
	}
	if len(s.proposals) == 0 {
		return ErrNoProposals
	}
	s.state = StateReviewing
	return nil
}

// Resume moves reviewing back to collecting so the conversation can
// continue gathering habits.
func (o *Orchestrator) Resume(userID int64) error {
	s := o.session(userID)
	o.mu.Lock()
	defer o.mu.Unlock()
	if s.state == StateConfirmed {
		return ErrConfirmed
	}
	s.state = StateCollecting
	return nil
}

// Confirm finishes onboarding: every accumulated proposal is promoted
// to a tracked habit with a fresh identity, zero streak and empty
// completion history. The session becomes terminal.
func (o *Orchestrator) Confirm(userID int64) ([]habit.Habit, error) {
	s := o.session(userID)
	o.mu.Lock()
	defer o.mu.Unlock()
	if s.state == StateConfirmed {
		return nil, ErrConfirmed
	}
	if s.state != StateReviewing {
		return nil, fmt.Errorf("cannot confirm while %s", s.state)
	}
	batch := habit.PromoteAll(s.proposals, o.now())
	s.state = StateConfirmed
	return batch, nil
}

// Reset discards the session entirely: transcript and proposals.
func (o *Orchestrator) Reset(userID int64) {
	o.mu.Lock()
	delete(o.sessions, userID)
	o.mu.Unlock()
	o.transcripts.Reset(userID)
}

// Transcript exposes the conversation so far.
func (o *Orchestrator) Transcript(userID int64) []llm.Message {
	return o.transcripts.Get(userID)
}
