package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
	"github.com/spec-kit/agency-crm/internal/service"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// ClientsHandler manages client and lead endpoints.
type ClientsHandler struct {
	leads  *service.LeadService
	agency *service.AgencyService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(leadService *service.LeadService, agencyService *service.AgencyService) *ClientsHandler {
	return &ClientsHandler{leads: leadService, agency: agencyService}
}

// CreateClient POST /api/clients. Staff may assign any agent; an agent
// creating a lead always gets it assigned to themselves.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" && req.LastName == "" {
		return apperrors.NewValidationError("a name is required", nil)
	}

	input := clientInput(req)
	if !principal.User.Role.IsStaff() {
		if principal.Agent == nil {
			return apperrors.NewForbidden("no agent record linked to this account")
		}
		input.AgentID = &principal.Agent.ID
	}

	client, err := h.leads.CreateLead(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientResponse(client, true)})
}

// ListClients GET /api/clients. Agents are scoped to their own book.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := repository.ClientFilter{}
	for _, raw := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.ClientStatus(raw))
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	if principal.User.Role.IsStaff() {
		if agentID := c.Query("agent_id"); agentID != "" {
			filter.AgentID = &agentID
		}
	} else {
		if principal.Agent == nil {
			return apperrors.NewForbidden("no agent record linked to this account")
		}
		filter.AgentID = &principal.Agent.ID
	}

	clients, err := h.leads.ListClients(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, dto.NewClientResponse(&clients[i], true))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClient GET /api/clients/:id.
func (h *ClientsHandler) GetClient(c *fiber.Ctx) error {
	_, client, err := h.loadScoped(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client, true)})
}

// UpdateClient PUT /api/clients/:id.
func (h *ClientsHandler) UpdateClient(c *fiber.Ctx) error {
	principal, client, err := h.loadScoped(c)
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := clientInput(req)
	if !principal.User.Role.IsStaff() {
		// agents cannot reassign their own clients away
		input.AgentID = client.AgentID
	}
	updated, err := h.leads.UpdateClient(c.Context(), client.ID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(updated, true)})
}

// DeleteClient DELETE /api/clients/:id. Staff only.
func (h *ClientsHandler) DeleteClient(c *fiber.Ctx) error {
	if err := h.leads.DeleteClient(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignLead POST /api/clients/:id/assign. Staff only.
func (h *ClientsHandler) AssignLead(c *fiber.Ctx) error {
	var req dto.AssignLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgentID == "" {
		return apperrors.NewValidationError("agent_id required", nil)
	}
	client, err := h.leads.AssignLead(c.Context(), c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client, true)})
}

// ConvertLead POST /api/clients/:id/convert.
func (h *ClientsHandler) ConvertLead(c *fiber.Ctx) error {
	_, client, err := h.loadScoped(c)
	if err != nil {
		return err
	}
	converted, err := h.leads.ConvertLead(c.Context(), client.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(converted, true)})
}

// ListInteractions GET /api/clients/:id/interactions.
func (h *ClientsHandler) ListInteractions(c *fiber.Ctx) error {
	_, client, err := h.loadScoped(c)
	if err != nil {
		return err
	}
	interactions, err := h.agency.ListInteractions(c.Context(), client.ID)
	if err != nil {
		return err
	}
	items := make([]dto.InteractionResponse, 0, len(interactions))
	for i := range interactions {
		items = append(items, dto.NewInteractionResponse(&interactions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// loadScoped fetches the client and enforces that agents only touch their
// own book.
func (h *ClientsHandler) loadScoped(c *fiber.Ctx) (*auth.Principal, *domain.Client, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}
	client, err := h.leads.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return nil, nil, err
	}
	if !principal.User.Role.IsStaff() {
		if principal.Agent == nil || client.AgentID == nil || *client.AgentID != principal.Agent.ID {
			return nil, nil, apperrors.NewForbidden("client is not in your book")
		}
	}
	return principal, client, nil
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		DateOfBirth:  req.DateOfBirth,
		AgentID:      req.AgentID,
		SSN:          req.SSN,
		BankName:     req.BankName,
		BankAccount:  req.BankAccount,
		MedicalNotes: req.MedicalNotes,
	}
}
