package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

type policyRepo struct {
	s *Store
}

func (r *policyRepo) Create(_ context.Context, policy *domain.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	policy.ID = newID()
	policy.CreatedAt = now()
	policy.UpdatedAt = policy.CreatedAt
	clone := *policy
	r.s.policies[policy.ID] = &clone
	return nil
}

func (r *policyRepo) Update(_ context.Context, policy *domain.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.policies[policy.ID]; !ok {
		return pgx.ErrNoRows
	}
	policy.UpdatedAt = now()
	clone := *policy
	r.s.policies[policy.ID] = &clone
	return nil
}

func (r *policyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.policies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.policies, id)
	return nil
}

func (r *policyRepo) GetByID(_ context.Context, id string) (*domain.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	policy, ok := r.s.policies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *policy
	return &clone, nil
}

func (r *policyRepo) ListByClient(_ context.Context, clientID string) ([]domain.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Policy
	for _, policy := range r.s.policies {
		if policy.ClientID == clientID {
			result = append(result, *policy)
		}
	}
	sortPolicies(result)
	return result, nil
}

func (r *policyRepo) ListActiveByAgent(_ context.Context, agentID string) ([]domain.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Policy
	for _, policy := range r.s.policies {
		if policy.Status != domain.PolicyStatusActive {
			continue
		}
		client, ok := r.s.clients[policy.ClientID]
		if !ok || client.AgentID == nil || *client.AgentID != agentID {
			continue
		}
		result = append(result, *policy)
	}
	sortPolicies(result)
	return result, nil
}

func (r *policyRepo) ListExpiring(_ context.Context, from, to time.Time) ([]domain.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Policy
	for _, policy := range r.s.policies {
		if policy.Status != domain.PolicyStatusActive {
			continue
		}
		if policy.EndDate.Before(from) || policy.EndDate.After(to) {
			continue
		}
		result = append(result, *policy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EndDate.Before(result[j].EndDate) })
	return result, nil
}

func sortPolicies(policies []domain.Policy) {
	sort.Slice(policies, func(i, j int) bool { return policies[i].StartDate.After(policies[j].StartDate) })
}
