package infrastructure

import (
	"sync"
	"time"
)

// ChatSession tracks the in-flight generation of one chat.
type ChatSession struct {
	ChatID       int64
	IsProcessing bool
	StartedAt    time.Time
	mu           sync.Mutex
}

// SessionManager keeps one ChatSession per chat.
type SessionManager struct {
	sessions map[int64]*ChatSession
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*ChatSession),
	}
}

// GetOrCreateSession returns or creates the session of chatID.
func (sm *SessionManager) GetOrCreateSession(chatID int64) *ChatSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[chatID]
	if !exists {
		session = &ChatSession{ChatID: chatID}
		sm.sessions[chatID] = session
	}
	return session
}

// TryBegin marks the session as processing. It returns false if a
// generation is already running for this chat.
func (cs *ChatSession) TryBegin() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.IsProcessing {
		return false
	}
	cs.IsProcessing = true
	cs.StartedAt = time.Now()
	return true
}

// Finish marks the session as idle.
func (cs *ChatSession) Finish() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.IsProcessing = false
}

// Busy reports whether a generation is running.
func (cs *ChatSession) Busy() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.IsProcessing
}

// Elapsed is how long the running generation has taken, or zero when idle.
func (cs *ChatSession) Elapsed() time.Duration {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if !cs.IsProcessing {
		return 0
	}
	return time.Since(cs.StartedAt)
}
