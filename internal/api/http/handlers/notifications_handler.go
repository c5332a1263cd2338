package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/service"
)

// NotificationsHandler manages in-app notification endpoints.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	unreadOnly := c.QueryBool("unread")
	notifications, err := h.notifications.List(c.Context(), user.ID, unreadOnly)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkRead POST /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Context(), c.Params("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}

// MarkAllRead POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllRead(c.Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
