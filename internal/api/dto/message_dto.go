package dto

import (
	"time"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
}

// BroadcastRequest payload.
type BroadcastRequest struct {
	Body string `json:"body"`
}

// EditMessageRequest payload.
type EditMessageRequest struct {
	Body string `json:"body"`
}

// MessageResponse message view.
type MessageResponse struct {
	ID         string               `json:"id"`
	SenderID   string               `json:"sender_id"`
	ReceiverID string               `json:"receiver_id"`
	Body       string               `json:"body"`
	Status     domain.MessageStatus `json:"status"`
	IsRead     bool                 `json:"is_read"`
	Edited     bool                 `json:"edited"`
	Broadcast  bool                 `json:"broadcast"`
	TrashedBy  *string              `json:"trashed_by,omitempty"`
	TrashedAt  *time.Time           `json:"trashed_at,omitempty"`
	SentAt     time.Time            `json:"sent_at"`
}

// NewMessageResponse maps a message.
func NewMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Body:       msg.Body,
		Status:     msg.Status,
		IsRead:     msg.IsRead,
		Edited:     msg.Edited,
		Broadcast:  msg.Broadcast,
		TrashedBy:  msg.TrashedBy,
		TrashedAt:  msg.TrashedAt,
		SentAt:     msg.SentAt,
	}
}

// NotificationResponse notification view.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Link      string                  `json:"link"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewNotificationResponse maps a notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
