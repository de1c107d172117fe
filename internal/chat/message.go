package chat

import (
	"sync"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry of the transcript. Messages are never edited
// after they are appended.
type Message struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ==================== Transcript ====================

// Transcript is the ordered list of messages shown in the chat view.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	nextID   int
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message stamped with at and returns the stored copy.
func (t *Transcript) Append(role Role, text string, at time.Time) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	msg := Message{
		ID:        t.nextID,
		Role:      role,
		Text:      text,
		Timestamp: at,
	}
	t.messages = append(t.messages, msg)
	return msg
}

// Messages returns a copy of the transcript in display order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Message, len(t.messages))
	copy(result, t.messages)
	return result
}

// Get returns the message with the given id.
func (t *Transcript) Get(id int) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, m := range t.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Reset drops every message. IDs keep increasing across resets.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}
