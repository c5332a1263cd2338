package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/service"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// AgentsHandler manages the agent roster endpoints.
type AgentsHandler struct {
	agents      *service.AgentService
	performance *service.PerformanceService
	agency      *service.AgencyService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agentService *service.AgentService, performanceService *service.PerformanceService, agencyService *service.AgencyService) *AgentsHandler {
	return &AgentsHandler{agents: agentService, performance: performanceService, agency: agencyService}
}

// CreateAgent POST /api/agents. Staff only.
func (h *AgentsHandler) CreateAgent(c *fiber.Ctx) error {
	var req dto.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	agent, err := h.agents.CreateAgent(c.Context(), agentInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// ListAgents GET /api/agents.
func (h *AgentsHandler) ListAgents(c *fiber.Ctx) error {
	var statuses []domain.AgentStatus
	for _, raw := range splitQuery(c.Query("status")) {
		statuses = append(statuses, domain.AgentStatus(raw))
	}
	agents, err := h.agents.ListAgents(c.Context(), statuses)
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.NewAgentResponse(&agents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetAgent GET /api/agents/:id. Accepts an id or a public slug.
func (h *AgentsHandler) GetAgent(c *fiber.Ctx) error {
	id := c.Params("id")
	agent, err := h.agents.GetAgent(c.Context(), id)
	if err != nil {
		if domainErr := apperrors.ToDomainError(err); domainErr.HTTPStatus == fiber.StatusNotFound {
			agent, err = h.agents.GetAgentBySlug(c.Context(), id)
		}
		if err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// UpdateAgent PUT /api/agents/:id. Staff may change the commission split;
// an agent editing their own profile may not.
func (h *AgentsHandler) UpdateAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	id := c.Params("id")
	isStaff := principal.User.Role.IsStaff()
	if !isStaff {
		if principal.Agent == nil || principal.Agent.ID != id {
			return apperrors.NewForbidden("not your profile")
		}
	}
	agent, err := h.agents.UpdateProfile(c.Context(), id, agentInput(req), isStaff)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Approve POST /api/agents/:id/approve. Admin only.
func (h *AgentsHandler) Approve(c *fiber.Ctx) error {
	var req dto.ApproveAgentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
	}
	agent, err := h.agents.Approve(c.Context(), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Reject POST /api/agents/:id/reject. Admin only.
func (h *AgentsHandler) Reject(c *fiber.Ctx) error {
	agent, err := h.agents.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Deactivate POST /api/agents/:id/deactivate. Staff only.
func (h *AgentsHandler) Deactivate(c *fiber.Ctx) error {
	agent, err := h.agents.Deactivate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Reactivate POST /api/agents/:id/reactivate. Staff only.
func (h *AgentsHandler) Reactivate(c *fiber.Ctx) error {
	agent, err := h.agents.Reactivate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// DeleteAgent DELETE /api/agents/:id. Admin only.
func (h *AgentsHandler) DeleteAgent(c *fiber.Ctx) error {
	if err := h.agents.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Performance GET /api/agents/:id/performance. Staff, or the agent itself.
func (h *AgentsHandler) Performance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	id := c.Params("id")
	if !principal.User.Role.IsStaff() {
		if principal.Agent == nil || principal.Agent.ID != id {
			return apperrors.NewForbidden("not your performance data")
		}
	}
	perf, err := h.performance.ForAgent(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPerformanceResponse(perf)})
}

// AddLicense POST /api/agents/:id/licenses. Staff only.
func (h *AgentsHandler) AddLicense(c *fiber.Ctx) error {
	var req dto.LicenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lic, err := h.agency.AddLicense(c.Context(), service.LicenseInput{
		AgentID:         c.Params("id"),
		State:           req.State,
		LicenseNumber:   req.LicenseNumber,
		LineOfAuthority: req.LineOfAuthority,
		ExpiresAt:       req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewLicenseResponse(lic)})
}

// ListLicenses GET /api/agents/:id/licenses.
func (h *AgentsHandler) ListLicenses(c *fiber.Ctx) error {
	licenses, err := h.agency.ListLicenses(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.LicenseResponse, 0, len(licenses))
	for i := range licenses {
		items = append(items, dto.NewLicenseResponse(&licenses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RemoveLicense DELETE /api/agents/:id/licenses/:licenseID. Staff only.
func (h *AgentsHandler) RemoveLicense(c *fiber.Ctx) error {
	if err := h.agency.RemoveLicense(c.Context(), c.Params("licenseID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func agentInput(req dto.AgentRequest) service.AgentInput {
	return service.AgentInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Bio:            req.Bio,
		CommissionRate: req.CommissionRate,
	}
}
