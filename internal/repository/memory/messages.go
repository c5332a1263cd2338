package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

type messageRepo struct {
	s *Store
}

func (r *messageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg.ID = newID()
	if msg.Status == "" {
		msg.Status = domain.MessageStatusActive
	}
	// tests may backdate SentAt to exercise the trash/edit windows
	if msg.SentAt.IsZero() {
		msg.SentAt = now()
	}
	msg.UpdatedAt = msg.SentAt
	clone := *msg
	r.s.messages[msg.ID] = &clone
	return nil
}

func (r *messageRepo) Update(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[msg.ID]; !ok {
		return pgx.ErrNoRows
	}
	msg.UpdatedAt = now()
	clone := *msg
	r.s.messages[msg.ID] = &clone
	return nil
}

func (r *messageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.messages, id)
	return nil
}

func (r *messageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg, ok := r.s.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *msg
	return &clone, nil
}

func (r *messageRepo) ListInbox(_ context.Context, userID string) ([]domain.Message, error) {
	return r.listWhere(func(m *domain.Message) bool {
		return m.ReceiverID == userID && m.Status == domain.MessageStatusActive
	})
}

func (r *messageRepo) ListSent(_ context.Context, userID string) ([]domain.Message, error) {
	return r.listWhere(func(m *domain.Message) bool {
		return m.SenderID == userID && m.Status == domain.MessageStatusActive
	})
}

func (r *messageRepo) ListTrash(_ context.Context, userID string, includeAll bool) ([]domain.Message, error) {
	return r.listWhere(func(m *domain.Message) bool {
		if m.Status != domain.MessageStatusTrashed {
			return false
		}
		if includeAll {
			return true
		}
		return m.TrashedBy != nil && *m.TrashedBy == userID
	})
}

func (r *messageRepo) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg, ok := r.s.messages[id]
	if !ok {
		return pgx.ErrNoRows
	}
	msg.IsRead = true
	msg.UpdatedAt = now()
	return nil
}

func (r *messageRepo) listWhere(keep func(*domain.Message) bool) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Message
	for _, msg := range r.s.messages {
		if keep(msg) {
			result = append(result, *msg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SentAt.After(result[j].SentAt) })
	return result, nil
}
