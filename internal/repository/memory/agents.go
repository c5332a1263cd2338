package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

type agentRepo struct {
	s *Store
}

func (r *agentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	agent.ID = newID()
	agent.CreatedAt = now()
	agent.UpdatedAt = agent.CreatedAt
	recomputeRate(agent)
	clone := *agent
	clone.Email = strings.ToLower(clone.Email)
	r.s.agents[agent.ID] = &clone
	return nil
}

func (r *agentRepo) Update(_ context.Context, agent *domain.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.agents[agent.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	// counters move only through AddLeads/AddClients
	agent.Leads = existing.Leads
	agent.ClientCount = existing.ClientCount
	agent.ConversionRate = existing.ConversionRate
	agent.UpdatedAt = now()
	clone := *agent
	clone.Email = strings.ToLower(clone.Email)
	r.s.agents[agent.ID] = &clone
	return nil
}

func (r *agentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.agents[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.agents, id)
	return nil
}

func (r *agentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	agent, ok := r.s.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *agent
	return &clone, nil
}

func (r *agentRepo) GetBySlug(_ context.Context, slug string) (*domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, agent := range r.s.agents {
		if agent.Slug == slug {
			clone := *agent
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *agentRepo) GetByUserID(_ context.Context, userID string) (*domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, agent := range r.s.agents {
		if agent.UserID != nil && *agent.UserID == userID {
			clone := *agent
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *agentRepo) List(_ context.Context, statuses []domain.AgentStatus) ([]domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Agent
	for _, agent := range r.s.agents {
		if len(statuses) > 0 && !containsStatus(statuses, agent.Status) {
			continue
		}
		result = append(result, *agent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *agentRepo) AddLeads(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	agent, ok := r.s.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	agent.Leads += delta
	if agent.Leads < 0 {
		agent.Leads = 0
	}
	recomputeRate(agent)
	agent.UpdatedAt = now()
	return nil
}

func (r *agentRepo) AddClients(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	agent, ok := r.s.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	agent.ClientCount += delta
	if agent.ClientCount < 0 {
		agent.ClientCount = 0
	}
	recomputeRate(agent)
	agent.UpdatedAt = now()
	return nil
}

func recomputeRate(agent *domain.Agent) {
	if agent.Leads > 0 {
		agent.ConversionRate = float64(agent.ClientCount) / float64(agent.Leads)
	} else {
		agent.ConversionRate = 0
	}
}

func containsStatus(statuses []domain.AgentStatus, s domain.AgentStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
