package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// MessageRepository defines persistence access for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Update(ctx context.Context, msg *domain.Message) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListInbox(ctx context.Context, userID string) ([]domain.Message, error)
	ListSent(ctx context.Context, userID string) ([]domain.Message, error)
	ListTrash(ctx context.Context, userID string, includeAll bool) ([]domain.Message, error)
	MarkRead(ctx context.Context, id string) error
}

type messageRepository struct {
	db Querier
}

// NewMessageRepository returns a Postgres-backed implementation.
func NewMessageRepository(db Querier) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, sender_id, receiver_id, body, status, is_read, edited, broadcast,
        trashed_by, trashed_at, sent_at, updated_at`

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (sender_id, receiver_id, body, status, broadcast)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, is_read, edited, sent_at, updated_at`

	if msg.Status == "" {
		msg.Status = domain.MessageStatusActive
	}
	return r.db.QueryRow(ctx, query,
		msg.SenderID,
		msg.ReceiverID,
		msg.Body,
		msg.Status,
		msg.Broadcast,
	).Scan(&msg.ID, &msg.IsRead, &msg.Edited, &msg.SentAt, &msg.UpdatedAt)
}

func (r *messageRepository) Update(ctx context.Context, msg *domain.Message) error {
	const query = `
        UPDATE messages SET body=$1, status=$2, is_read=$3, edited=$4, trashed_by=$5, trashed_at=$6,
            updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.db.Exec(ctx, query,
		msg.Body,
		msg.Status,
		msg.IsRead,
		msg.Edited,
		msg.TrashedBy,
		msg.TrashedAt,
		msg.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id))
}

func (r *messageRepository) ListInbox(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM messages
        WHERE receiver_id=$1 AND status='ACTIVE' ORDER BY sent_at DESC`
	return r.list(ctx, query, userID)
}

func (r *messageRepository) ListSent(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM messages
        WHERE sender_id=$1 AND status='ACTIVE' ORDER BY sent_at DESC`
	return r.list(ctx, query, userID)
}

// ListTrash returns trashed messages visible to the caller: everything when
// includeAll (admin), otherwise only messages the caller trashed.
func (r *messageRepository) ListTrash(ctx context.Context, userID string, includeAll bool) ([]domain.Message, error) {
	if includeAll {
		return r.list(ctx, `SELECT `+messageColumns+` FROM messages
            WHERE status='TRASHED' ORDER BY trashed_at DESC`)
	}
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages
        WHERE status='TRASHED' AND trashed_by=$1 ORDER BY trashed_at DESC`, userID)
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE messages SET is_read=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		msg, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) scanOne(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	if err := row.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.Body,
		&msg.Status,
		&msg.IsRead,
		&msg.Edited,
		&msg.Broadcast,
		&msg.TrashedBy,
		&msg.TrashedAt,
		&msg.SentAt,
		&msg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}
