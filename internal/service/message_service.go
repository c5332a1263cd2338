package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/observability"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// MessageService handles direct and broadcast messaging with edit and trash
// windows enforced server side.
type MessageService struct {
	repos      *repository.Registry
	uow        repository.UnitOfWork
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// MessageDependencies bundles requirements for the message service.
type MessageDependencies struct {
	Repos      *repository.Registry
	UnitOfWork repository.UnitOfWork
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &MessageService{
		repos:      deps.Repos,
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// Send delivers a direct message from the sender to one receiver.
func (s *MessageService) Send(ctx context.Context, sender *domain.User, receiverID, body string) (*domain.Message, error) {
	if body == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}
	if receiverID == sender.ID {
		return nil, apperrors.NewValidationError("cannot message yourself", nil)
	}
	if _, err := s.repos.Users.GetByID(ctx, receiverID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": receiverID})
		}
		return nil, err
	}

	msg := &domain.Message{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Body:       body,
		Status:     domain.MessageStatusActive,
		SentAt:     s.now(),
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventMessageSent,
		ActorID: sender.ID,
		Payload: events.MessageSentPayload{
			MessageID:  msg.ID,
			SenderID:   sender.ID,
			SenderName: sender.Name,
			ReceiverID: receiverID,
		},
	})
	return msg, nil
}

// Broadcast sends one copy of the body to every broadcast recipient except
// the sender: all sub-admins plus every agent whose roster record is ACTIVE.
// All copies commit together; the recipient count comes back to the caller.
func (s *MessageService) Broadcast(ctx context.Context, sender *domain.User, body string) (int, error) {
	if body == "" {
		return 0, apperrors.NewValidationError("message body is required", nil)
	}
	if sender.Role != domain.RoleAdmin {
		return 0, apperrors.NewForbidden("only admins may broadcast")
	}

	recipients, err := s.repos.Users.ListBroadcastRecipients(ctx)
	if err != nil {
		return 0, err
	}

	sentAt := s.now()
	var messages []*domain.Message
	err = s.uow.Run(ctx, func(r *repository.Registry) error {
		messages = messages[:0]
		for _, rcpt := range recipients {
			if rcpt.ID == sender.ID {
				continue
			}
			msg := &domain.Message{
				SenderID:   sender.ID,
				ReceiverID: rcpt.ID,
				Body:       body,
				Status:     domain.MessageStatusActive,
				Broadcast:  true,
				SentAt:     sentAt,
			}
			if err := r.Messages.Create(ctx, msg); err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, msg := range messages {
		s.publish(ctx, events.Event{
			Type:    events.EventMessageSent,
			ActorID: sender.ID,
			Payload: events.MessageSentPayload{
				MessageID:  msg.ID,
				SenderID:   sender.ID,
				SenderName: sender.Name,
				ReceiverID: msg.ReceiverID,
				Broadcast:  true,
			},
		})
	}
	if s.metrics != nil {
		s.metrics.BroadcastMessages.Inc()
	}
	s.logger.Info("broadcast sent",
		zap.String("sender_id", sender.ID),
		zap.Int("recipients", len(messages)))
	return len(messages), nil
}

// Edit rewrites the body of the actor's own message. Allowed only within
// MessageEditWindow of send; the edited flag is permanent.
func (s *MessageService) Edit(ctx context.Context, actor *domain.User, id, body string) (*domain.Message, error) {
	if body == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}
	msg, err := s.getMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actor.ID {
		return nil, apperrors.NewForbidden("only the sender may edit a message")
	}
	if s.now().Sub(msg.SentAt) > domain.MessageEditWindow {
		return nil, apperrors.NewForbidden("edit window has closed")
	}

	msg.Body = body
	msg.Edited = true
	if err := s.repos.Messages.Update(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Trash removes a message from the actor's view. A sender acting within
// MessageHardDeleteWindow of send deletes the row outright; otherwise the
// sender, receiver or an admin soft-trashes it, recording who did so.
func (s *MessageService) Trash(ctx context.Context, actor *domain.User, id string) error {
	msg, err := s.getMessage(ctx, id)
	if err != nil {
		return err
	}

	if msg.SenderID == actor.ID && s.now().Sub(msg.SentAt) <= domain.MessageHardDeleteWindow {
		return s.repos.Messages.Delete(ctx, msg.ID)
	}

	if msg.SenderID != actor.ID && msg.ReceiverID != actor.ID && actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("not a participant in this message")
	}
	if msg.Status == domain.MessageStatusTrashed {
		return apperrors.NewConflict("message is already trashed", nil)
	}

	trashedAt := s.now()
	msg.Status = domain.MessageStatusTrashed
	msg.TrashedBy = &actor.ID
	msg.TrashedAt = &trashedAt
	return s.repos.Messages.Update(ctx, msg)
}

// Restore returns a trashed message to ACTIVE. Only the user who trashed it
// or an admin may restore.
func (s *MessageService) Restore(ctx context.Context, actor *domain.User, id string) (*domain.Message, error) {
	msg, err := s.getMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status != domain.MessageStatusTrashed {
		return nil, apperrors.NewConflict("message is not trashed", nil)
	}
	if actor.Role != domain.RoleAdmin && (msg.TrashedBy == nil || *msg.TrashedBy != actor.ID) {
		return nil, apperrors.NewForbidden("only the trasher or an admin may restore")
	}

	msg.Status = domain.MessageStatusActive
	msg.TrashedBy = nil
	msg.TrashedAt = nil
	if err := s.repos.Messages.Update(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Purge permanently deletes a trashed message. Admin only.
func (s *MessageService) Purge(ctx context.Context, actor *domain.User, id string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("only admins may purge messages")
	}
	msg, err := s.getMessage(ctx, id)
	if err != nil {
		return err
	}
	if msg.Status != domain.MessageStatusTrashed {
		return apperrors.NewConflict("only trashed messages can be purged", nil)
	}
	return s.repos.Messages.Delete(ctx, msg.ID)
}

// MarkRead flags a message read. Receiver only.
func (s *MessageService) MarkRead(ctx context.Context, actor *domain.User, id string) error {
	msg, err := s.getMessage(ctx, id)
	if err != nil {
		return err
	}
	if msg.ReceiverID != actor.ID {
		return apperrors.NewForbidden("only the receiver may mark a message read")
	}
	return s.repos.Messages.MarkRead(ctx, msg.ID)
}

// Inbox lists active messages received by the user, newest first.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]domain.Message, error) {
	return s.repos.Messages.ListInbox(ctx, userID)
}

// Sent lists active messages sent by the user, newest first.
func (s *MessageService) Sent(ctx context.Context, userID string) ([]domain.Message, error) {
	return s.repos.Messages.ListSent(ctx, userID)
}

// Trashed lists the trash view. Admins see every trashed message, others only
// the ones they participated in.
func (s *MessageService) Trashed(ctx context.Context, actor *domain.User) ([]domain.Message, error) {
	return s.repos.Messages.ListTrash(ctx, actor.ID, actor.Role == domain.RoleAdmin)
}

func (s *MessageService) getMessage(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := s.repos.Messages.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("message", map[string]any{"message_id": id})
		}
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
