package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/service"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// MessagesHandler manages messaging endpoints.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messageService}
}

// Send POST /api/messages.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReceiverID == "" {
		return apperrors.NewValidationError("receiver_id required", nil)
	}
	msg, err := h.messages.Send(c.Context(), user, req.ReceiverID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// Broadcast POST /api/messages/broadcast. Admin only.
func (h *MessagesHandler) Broadcast(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	count, err := h.messages.Broadcast(c.Context(), user, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"recipients": count}})
}

// Inbox GET /api/messages/inbox.
func (h *MessagesHandler) Inbox(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	msgs, err := h.messages.Inbox(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageItems(msgs)})
}

// Sent GET /api/messages/sent.
func (h *MessagesHandler) Sent(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	msgs, err := h.messages.Sent(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageItems(msgs)})
}

// Trash GET /api/messages/trash.
func (h *MessagesHandler) Trash(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	msgs, err := h.messages.Trashed(c.Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageItems(msgs)})
}

// Edit PUT /api/messages/:id.
func (h *MessagesHandler) Edit(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.messages.Edit(c.Context(), user, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// TrashMessage DELETE /api/messages/:id.
func (h *MessagesHandler) TrashMessage(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.messages.Trash(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore POST /api/messages/:id/restore.
func (h *MessagesHandler) Restore(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	msg, err := h.messages.Restore(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// Purge DELETE /api/messages/:id/purge. Admin only.
func (h *MessagesHandler) Purge(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.messages.Purge(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkRead POST /api/messages/:id/read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.messages.MarkRead(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}

func requireUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func messageItems(msgs []domain.Message) []dto.MessageResponse {
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewMessageResponse(&msgs[i]))
	}
	return items
}
