package dto

import (
	"time"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// PolicyRequest payload for create and update.
type PolicyRequest struct {
	ClientID      string              `json:"client_id"`
	PolicyNumber  string              `json:"policy_number"`
	PolicyType    string              `json:"policy_type"`
	AnnualPremium float64             `json:"annual_premium"`
	Status        domain.PolicyStatus `json:"status"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
}

// PolicyResponse policy view.
type PolicyResponse struct {
	ID            string              `json:"id"`
	ClientID      string              `json:"client_id"`
	PolicyNumber  string              `json:"policy_number"`
	PolicyType    string              `json:"policy_type"`
	AnnualPremium float64             `json:"annual_premium"`
	Status        domain.PolicyStatus `json:"status"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewPolicyResponse maps a policy.
func NewPolicyResponse(policy *domain.Policy) PolicyResponse {
	return PolicyResponse{
		ID:            policy.ID,
		ClientID:      policy.ClientID,
		PolicyNumber:  policy.PolicyNumber,
		PolicyType:    policy.PolicyType,
		AnnualPremium: policy.AnnualPremium,
		Status:        policy.Status,
		StartDate:     policy.StartDate,
		EndDate:       policy.EndDate,
		CreatedAt:     policy.CreatedAt,
		UpdatedAt:     policy.UpdatedAt,
	}
}
