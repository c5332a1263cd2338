package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/service"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// PoliciesHandler manages policy endpoints.
type PoliciesHandler struct {
	policies *service.PolicyService
}

// NewPoliciesHandler constructs handler.
func NewPoliciesHandler(policyService *service.PolicyService) *PoliciesHandler {
	return &PoliciesHandler{policies: policyService}
}

// CreatePolicy POST /api/policies.
func (h *PoliciesHandler) CreatePolicy(c *fiber.Ctx) error {
	var req dto.PolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	policy, err := h.policies.CreatePolicy(c.Context(), policyInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPolicyResponse(policy)})
}

// GetPolicy GET /api/policies/:id.
func (h *PoliciesHandler) GetPolicy(c *fiber.Ctx) error {
	policy, err := h.policies.GetPolicy(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPolicyResponse(policy)})
}

// UpdatePolicy PUT /api/policies/:id.
func (h *PoliciesHandler) UpdatePolicy(c *fiber.Ctx) error {
	var req dto.PolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	policy, err := h.policies.UpdatePolicy(c.Context(), c.Params("id"), policyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPolicyResponse(policy)})
}

// DeletePolicy DELETE /api/policies/:id.
func (h *PoliciesHandler) DeletePolicy(c *fiber.Ctx) error {
	if err := h.policies.DeletePolicy(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByClient GET /api/clients/:id/policies.
func (h *PoliciesHandler) ListByClient(c *fiber.Ctx) error {
	policies, err := h.policies.ListByClient(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.PolicyResponse, 0, len(policies))
	for i := range policies {
		items = append(items, dto.NewPolicyResponse(&policies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CheckRenewals POST /api/policies/check-renewals. Staff only; the worker
// runs the same scan on a timer, this endpoint forces it.
func (h *PoliciesHandler) CheckRenewals(c *fiber.Ctx) error {
	raised, err := h.policies.CheckRenewals(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"notices": raised}})
}

func policyInput(req dto.PolicyRequest) service.PolicyInput {
	return service.PolicyInput{
		ClientID:      req.ClientID,
		PolicyNumber:  req.PolicyNumber,
		PolicyType:    req.PolicyType,
		AnnualPremium: req.AnnualPremium,
		Status:        req.Status,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
}
