package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// NotificationService persists in-app notifications and subscribes to the
// domain events that produce them.
type NotificationService struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(notifications repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{notifications: notifications, logger: logger}
}

// RegisterHandlers wires the service onto the dispatcher. Synchronous
// handlers mean each event yields its notification row before the triggering
// request returns.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventLeadAssigned, s.onLeadAssigned)
	dispatcher.Subscribe(events.EventLeadConverted, s.onLeadConverted)
	dispatcher.Subscribe(events.EventAgentApproved, s.onAgentApproved)
	dispatcher.Subscribe(events.EventMessageSent, s.onMessageSent)
	dispatcher.Subscribe(events.EventPolicyRenewalDue, s.onPolicyRenewalDue)
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return err
	}
	return nil
}

// MarkAllRead flags every unread notification the user has.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) onLeadAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LeadAssignedPayload)
	if !ok {
		return nil
	}
	return s.create(ctx, &domain.Notification{
		UserID:  payload.AgentUserID,
		Type:    domain.NotificationLeadAssigned,
		Message: fmt.Sprintf("New lead assigned: %s", payload.ClientName),
		Link:    "client/" + payload.ClientID,
	})
}

func (s *NotificationService) onLeadConverted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LeadConvertedPayload)
	if !ok {
		return nil
	}
	return s.create(ctx, &domain.Notification{
		UserID:  payload.AgentUserID,
		Type:    domain.NotificationLeadConverted,
		Message: fmt.Sprintf("%s converted to an active client", payload.ClientName),
		Link:    "client/" + payload.ClientID,
	})
}

func (s *NotificationService) onAgentApproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AgentApprovedPayload)
	if !ok {
		return nil
	}
	return s.create(ctx, &domain.Notification{
		UserID:  payload.AgentUserID,
		Type:    domain.NotificationAgentApproved,
		Message: "Your agent account has been approved",
		Link:    "agent/" + payload.AgentID,
	})
}

func (s *NotificationService) onMessageSent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageSentPayload)
	if !ok {
		return nil
	}
	return s.create(ctx, &domain.Notification{
		UserID:  payload.ReceiverID,
		Type:    domain.NotificationNewMessage,
		Message: fmt.Sprintf("New message from %s", payload.SenderName),
		Link:    "messages/" + payload.SenderID,
	})
}

func (s *NotificationService) onPolicyRenewalDue(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PolicyRenewalDuePayload)
	if !ok {
		return nil
	}
	policyID := payload.PolicyID
	return s.create(ctx, &domain.Notification{
		UserID:   payload.AgentUserID,
		Type:     domain.NotificationRenewalDue,
		Message:  fmt.Sprintf("Policy %s for %s renews on %s", payload.PolicyNumber, payload.ClientName, payload.EndDate.Format("2006-01-02")),
		Link:     "policy/" + policyID,
		PolicyID: &policyID,
	})
}

func (s *NotificationService) create(ctx context.Context, n *domain.Notification) error {
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Error("failed to persist notification",
			zap.String("type", string(n.Type)),
			zap.String("user_id", n.UserID),
			zap.Error(err))
		return err
	}
	return nil
}
