package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = newID()
	n.CreatedAt = now()
	clone := *n
	r.s.notifications[n.ID] = &clone
	return nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return pgx.ErrNoRows
	}
	n.IsRead = true
	return nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *notificationRepo) RenewalExists(_ context.Context, userID, policyID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.UserID == userID && n.Type == domain.NotificationRenewalDue &&
			n.PolicyID != nil && *n.PolicyID == policyID {
			return true, nil
		}
	}
	return false, nil
}
