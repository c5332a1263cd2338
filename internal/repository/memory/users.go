package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = newID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	clone.Email = strings.ToLower(clone.Email)
	r.s.users[user.ID] = &clone
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = now()
	clone := *user
	clone.Email = strings.ToLower(clone.Email)
	r.s.users[user.ID] = &clone
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email = strings.ToLower(email)
	for _, user := range r.s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) ListBroadcastRecipients(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	activeAgentUsers := make(map[string]bool)
	for _, agent := range r.s.agents {
		if agent.Status == domain.AgentStatusActive && agent.UserID != nil {
			activeAgentUsers[*agent.UserID] = true
		}
	}

	var result []domain.User
	for _, user := range r.s.users {
		if user.Role == domain.RoleSubAdmin || (user.Role == domain.RoleAgent && activeAgentUsers[user.ID]) {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
