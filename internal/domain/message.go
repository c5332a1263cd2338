package domain

import "time"

// MessageStatus enumerates visibility states for messages.
type MessageStatus string

const (
	MessageStatusActive  MessageStatus = "ACTIVE"
	MessageStatusTrashed MessageStatus = "TRASHED"
)

// Message is a direct message between two users. Trashing by the sender within
// EditWindow of send hard-deletes; otherwise the message is soft-trashed and
// TrashedBy/TrashedAt record the actor for restore permission checks.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Body       string
	Status     MessageStatus
	IsRead     bool
	Edited     bool
	Broadcast  bool
	TrashedBy  *string
	TrashedAt  *time.Time
	SentAt     time.Time
	UpdatedAt  time.Time
}

// Messaging time windows.
const (
	MessageEditWindow       = 2 * time.Minute
	MessageHardDeleteWindow = 24 * time.Hour
)
