package domain

import (
	"fmt"
	"time"
)

// MessageRole identifies the author of a conversation turn.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation groups the messages of one chat session.
type Conversation struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a single turn in a conversation.
type Message struct {
	ID             string
	ConversationID string
	Role           MessageRole
	Content        string
	CreatedAt      time.Time
}

// Turn is the read-only view of a message the chat core consumes when
// building AI-call context. It does not own conversation storage.
type Turn struct {
	Role    MessageRole
	Content string
}

// ValidateMessage validates a Message instance.
func ValidateMessage(m *Message) error {
	if m == nil {
		return fmt.Errorf("message cannot be nil")
	}

	if m.ID == "" {
		return fmt.Errorf("message ID is required")
	}

	if m.ConversationID == "" {
		return fmt.Errorf("message ConversationID is required")
	}

	if m.Content == "" {
		return ErrEmptyMessage
	}

	if !isValidMessageRole(m.Role) {
		return ErrInvalidMessageRole
	}

	return nil
}

func isValidMessageRole(r MessageRole) bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	}
	return false
}
