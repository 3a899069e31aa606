package domain

import (
	"fmt"
	"time"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// Thread is a conversation anchored to an idea. Created on first chat-open with
// upsert semantics: insert-if-absent, then unconditionally refresh title and
// updated timestamp.
type Thread struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is one append-only message within a thread. The id is derived
// from the thread id and a per-thread sequence number ("<threadId>_m<seq>").
type ChatMessage struct {
	ID        string
	ThreadID  string
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}

// ChatMessageID derives a message id from its thread and sequence number.
func ChatMessageID(threadID string, seq int64) string {
	return fmt.Sprintf("%s_m%d", threadID, seq)
}

// ThreadDocumentID derives the document id under which a thread message is
// embedded for retrieval.
func ThreadDocumentID(threadID, messageID string) string {
	return fmt.Sprintf("thread_%s_%s", threadID, messageID)
}

// isValidMessageRole checks if a MessageRole is one of the known values.
func isValidMessageRole(r MessageRole) bool {
	switch r {
	case MessageRoleUser, MessageRoleAssistant, MessageRoleSystem:
		return true
	}
	return false
}

// ValidateChatMessage validates a ChatMessage instance.
func ValidateChatMessage(m *ChatMessage) error {
	if m == nil {
		return NewDomainError(ErrCodeValidation, "chat message cannot be nil")
	}
	if m.ThreadID == "" {
		return NewDomainError(ErrCodeValidation, "chat message thread ID is required")
	}
	if !isValidMessageRole(m.Role) {
		return ErrInvalidMessageRole
	}
	return nil
}
