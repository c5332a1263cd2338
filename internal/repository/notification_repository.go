package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// NotificationRepository defines persistence access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	RenewalExists(ctx context.Context, userID, policyID string) (bool, error)
}

type notificationRepository struct {
	db Querier
}

// NewNotificationRepository returns a Postgres-backed implementation.
func NewNotificationRepository(db Querier) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, notif_type, message, link, policy_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, is_read, created_at`

	return r.db.QueryRow(ctx, query,
		n.UserID,
		n.Type,
		n.Message,
		n.Link,
		n.PolicyID,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := `
        SELECT id, user_id, notif_type, message, link, policy_id, is_read, created_at
        FROM notifications WHERE user_id=$1`
	if unreadOnly {
		query += ` AND is_read=FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Message,
			&n.Link,
			&n.PolicyID,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND is_read=FALSE`, userID)
	return err
}

// RenewalExists is the structured dedup check for renewal notices: one per
// (recipient, policy) regardless of message text.
func (r *notificationRepository) RenewalExists(ctx context.Context, userID, policyID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM notifications
            WHERE user_id=$1 AND notif_type=$2 AND policy_id=$3
        )`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, domain.NotificationRenewalDue, policyID).Scan(&exists)
	return exists, err
}
