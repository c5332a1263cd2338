package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// InteractionRepository manages the per-client contact log.
type InteractionRepository interface {
	Create(ctx context.Context, in *domain.Interaction) error
	Delete(ctx context.Context, id string) error
	ListByClient(ctx context.Context, clientID string) ([]domain.Interaction, error)
}

type interactionRepository struct {
	db Querier
}

// NewInteractionRepository builds repository.
func NewInteractionRepository(db Querier) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Create(ctx context.Context, in *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (client_id, user_id, kind, summary, occurred_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		in.ClientID,
		in.UserID,
		in.Kind,
		in.Summary,
		in.OccurredAt,
	).Scan(&in.ID, &in.CreatedAt)
}

func (r *interactionRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM interactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *interactionRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Interaction, error) {
	const query = `
        SELECT id, client_id, user_id, kind, summary, occurred_at, created_at
        FROM interactions WHERE client_id=$1 ORDER BY occurred_at DESC`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Interaction
	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(
			&in.ID,
			&in.ClientID,
			&in.UserID,
			&in.Kind,
			&in.Summary,
			&in.OccurredAt,
			&in.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, in)
	}
	return result, rows.Err()
}
