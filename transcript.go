package chatdoc

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who wrote a chat message.
type Role string

// Role values.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn in the conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Transcript is the ordered, append-only log of chat messages for the
// session. Messages are never modified once appended; Reset is the only
// destructive operation.
type Transcript struct {
	mu       sync.Mutex
	greeting string
	messages []ChatMessage
}

// NewTranscript creates a new Transcript. If greeting is not empty the
// transcript starts, and restarts after Reset, with a single assistant
// message carrying it.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{greeting: greeting}
	t.messages = t.initial()
	return t
}

// Append adds a message to the end of the transcript and returns it.
func (t *Transcript) Append(role Role, content string) ChatMessage {
	msg := newMessage(role, content)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return msg
}

// History returns a copy of the messages in arrival order.
func (t *Transcript) History() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	history := make([]ChatMessage, len(t.messages))
	copy(history, t.messages)
	return history
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Reset clears the transcript back to its initial state.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = t.initial()
}

func (t *Transcript) initial() []ChatMessage {
	if t.greeting == "" {
		return nil
	}
	return []ChatMessage{newMessage(RoleAssistant, t.greeting)}
}

func newMessage(role Role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
