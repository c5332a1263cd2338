package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
)

type clientRepo struct {
	s *Store
}

func (r *clientRepo) Create(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	client.ID = newID()
	client.CreatedAt = now()
	client.UpdatedAt = client.CreatedAt
	clone := *client
	clone.Email = strings.ToLower(clone.Email)
	r.s.clients[client.ID] = &clone
	return nil
}

func (r *clientRepo) Update(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	client.UpdatedAt = now()
	clone := *client
	clone.Email = strings.ToLower(clone.Email)
	r.s.clients[client.ID] = &clone
	return nil
}

func (r *clientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.clients, id)
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	client, ok := r.s.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *client
	return &clone, nil
}

func (r *clientRepo) List(_ context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Client
	for _, client := range r.s.clients {
		if filter.AgentID != nil && (client.AgentID == nil || *client.AgentID != *filter.AgentID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsClientStatus(filter.Statuses, client.Status) {
			continue
		}
		result = append(result, *client)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].JoinDate.After(result[j].JoinDate) })

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *clientRepo) UnassignAgent(_ context.Context, agentID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, client := range r.s.clients {
		if client.AgentID != nil && *client.AgentID == agentID {
			client.AgentID = nil
			client.UpdatedAt = now()
			count++
		}
	}
	return count, nil
}

func (r *clientRepo) CountByStatus(_ context.Context) (map[domain.ClientStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[domain.ClientStatus]int)
	for _, client := range r.s.clients {
		counts[client.Status]++
	}
	return counts, nil
}

func containsClientStatus(statuses []domain.ClientStatus, s domain.ClientStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
