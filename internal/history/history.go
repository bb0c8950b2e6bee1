package history

import (
	"sync"

	"habit-coach/internal/llm"
)

// Manager keeps the append-only onboarding transcript per user. The
// transcript is never mutated in place; it only grows until Reset.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64][]llm.Message)}
}

func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *Manager) AppendUser(userID int64, content string) {
	m.append(userID, llm.Message{Role: llm.RoleUser, Content: content})
}

func (m *Manager) AppendAssistant(userID int64, content string) {
	m.append(userID, llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (m *Manager) append(userID int64, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = append(m.sessions[userID], msg)
}

// Get returns a copy of the user's transcript in order of appearance.
func (m *Manager) Get(userID int64) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	es := m.sessions[userID]
	out := make([]llm.Message, len(es))
	copy(out, es)
	return out
}

// Len reports how many turns the user's transcript holds.
func (m *Manager) Len(userID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[userID])
}
