package dto

import (
	"time"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// AgentRequest payload for create and update.
type AgentRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Bio            string   `json:"bio"`
	CommissionRate *float64 `json:"commission_rate"`
}

// ApproveAgentRequest selects the role the paired login is promoted to.
// Empty defaults to AGENT.
type ApproveAgentRequest struct {
	Role domain.Role `json:"role"`
}

// AgentResponse roster view.
type AgentResponse struct {
	ID             string             `json:"id"`
	UserID         *string            `json:"user_id,omitempty"`
	Name           string             `json:"name"`
	Slug           string             `json:"slug"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Bio            string             `json:"bio"`
	Leads          int                `json:"leads"`
	ClientCount    int                `json:"client_count"`
	ConversionRate float64            `json:"conversion_rate"`
	CommissionRate float64            `json:"commission_rate"`
	Status         domain.AgentStatus `json:"status"`
	JoinDate       *time.Time         `json:"join_date,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewAgentResponse maps an agent.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:             agent.ID,
		UserID:         agent.UserID,
		Name:           agent.Name,
		Slug:           agent.Slug,
		Email:          agent.Email,
		Phone:          agent.Phone,
		Bio:            agent.Bio,
		Leads:          agent.Leads,
		ClientCount:    agent.ClientCount,
		ConversionRate: agent.ConversionRate,
		CommissionRate: agent.CommissionRate,
		Status:         agent.Status,
		JoinDate:       agent.JoinDate,
		CreatedAt:      agent.CreatedAt,
		UpdatedAt:      agent.UpdatedAt,
	}
}

// PerformanceResponse commission aggregate view.
type PerformanceResponse struct {
	AgentID          string  `json:"agent_id"`
	TotalPremium     float64 `json:"total_premium"`
	CommissionEarned float64 `json:"commission_earned"`
	AgencyOverride   float64 `json:"agency_override"`
	ActivePolicies   int     `json:"active_policies"`
}

// NewPerformanceResponse maps a performance aggregate.
func NewPerformanceResponse(perf *domain.AgentPerformance) PerformanceResponse {
	return PerformanceResponse{
		AgentID:          perf.AgentID,
		TotalPremium:     perf.TotalPremium,
		CommissionEarned: perf.CommissionEarned,
		AgencyOverride:   perf.AgencyOverride,
		ActivePolicies:   perf.ActivePolicies,
	}
}
