package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// PerformanceService computes commission aggregates from live policy data.
// Nothing is cached: the split is always derived from active policies at
// read time, so premium or rate changes show up immediately.
type PerformanceService struct {
	agents   repository.AgentRepository
	policies repository.PolicyRepository
}

// NewPerformanceService constructs the service.
func NewPerformanceService(agents repository.AgentRepository, policies repository.PolicyRepository) *PerformanceService {
	return &PerformanceService{agents: agents, policies: policies}
}

// ForAgent sums annual premium over the agent's active policies and splits
// it by the agent's commission rate; the remainder is the agency override.
func (s *PerformanceService) ForAgent(ctx context.Context, agentID string) (*domain.AgentPerformance, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, err
	}

	policies, err := s.policies.ListActiveByAgent(ctx, agent.ID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, p := range policies {
		total += p.AnnualPremium
	}
	return &domain.AgentPerformance{
		AgentID:          agent.ID,
		TotalPremium:     total,
		CommissionEarned: total * agent.CommissionRate,
		AgencyOverride:   total * (1 - agent.CommissionRate),
		ActivePolicies:   len(policies),
	}, nil
}
