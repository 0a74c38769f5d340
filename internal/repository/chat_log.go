package repository

import (
	"sync"

	"arkadia_console/internal/entities"
)

// ChatLog is the process-owned, append-only history of the web chat.
// It is lost on restart.
type ChatLog struct {
	mu      sync.RWMutex
	entries []entities.ChatLogEntry
	limit   int // 0 = unbounded
}

// NewChatLog creates a chat log. limit > 0 keeps only the newest entries.
func NewChatLog(limit int) *ChatLog {
	if limit < 0 {
		limit = 0
	}
	return &ChatLog{limit: limit}
}

// Append adds an entry in arrival order.
func (l *ChatLog) Append(entry entities.ChatLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if l.limit > 0 && len(l.entries) > l.limit {
		// Copy down so the backing array does not grow without bound.
		n := copy(l.entries, l.entries[len(l.entries)-l.limit:])
		l.entries = l.entries[:n]
	}
}

// List returns a snapshot of the log at call time.
func (l *ChatLog) List() []entities.ChatLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entities.ChatLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of stored entries.
func (l *ChatLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
