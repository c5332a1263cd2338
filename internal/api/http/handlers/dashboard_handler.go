package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/service"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// DashboardHandler serves the landing-page summary.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// Summary GET /api/dashboard.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	summary, err := h.dashboard.Summary(c.Context(), principal.User, principal.Agent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Leads:               summary.Leads,
		ActiveClients:       summary.ActiveClients,
		InactiveClients:     summary.InactiveClients,
		ActiveAgents:        summary.ActiveAgents,
		PendingAgents:       summary.PendingAgents,
		OpenTasks:           summary.OpenTasks,
		UnreadNotifications: summary.UnreadNotifications,
		UnreadMessages:      summary.UnreadMessages,
	}})
}
