package session

import (
	"sync"

	"github.com/anonpost/internal/board"
)

// Step is the current dialogue state for one chat. A chat with no
// session is idle.
type Step string

const (
	StepTyping          Step = "typing"
	StepAwaitingCaption Step = "awaiting_caption"
	StepChooseTopic     Step = "choose_topic"
	StepConfirming      Step = "confirming"
	StepFormatting      Step = "formatting"
	StepCommenting      Step = "commenting"
	StepConfirmComment  Step = "confirm_comment"
	StepReplying        Step = "replying"
)

// Draft accumulates everything gathered so far: the post body under
// composition, or the target coordinates for a comment/reply in
// progress. Pending holds comment text awaiting preview confirmation.
type Draft struct {
	Text    string
	Media   *board.MediaRef
	Topic   string
	TopicID int

	PostID  int64
	Path    board.Path
	Pending string
}

// Session is one user's dialogue state, keyed by the private chat id.
type Session struct {
	ChatID int64
	UserID int64
	Step   Step
	Draft  Draft
}

// Manager owns every live session. Sessions live in memory only: a
// process restart drops them all. Posts are reloaded from the store
// and dialogues start over.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Get returns the session for a chat, or nil when the chat is idle.
func (m *Manager) Get(chatID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[chatID]
}

// Set stores or replaces the session for its chat.
func (m *Manager) Set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ChatID] = s
}

// Clear removes the session for a chat, returning it to idle.
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
