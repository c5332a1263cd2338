package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// LicenseRepository manages agent state licenses.
type LicenseRepository interface {
	Create(ctx context.Context, lic *domain.License) error
	Delete(ctx context.Context, id string) error
	ListByAgent(ctx context.Context, agentID string) ([]domain.License, error)
}

type licenseRepository struct {
	db Querier
}

// NewLicenseRepository builds repository.
func NewLicenseRepository(db Querier) LicenseRepository {
	return &licenseRepository{db: db}
}

func (r *licenseRepository) Create(ctx context.Context, lic *domain.License) error {
	const query = `
        INSERT INTO licenses (agent_id, state, license_number, line_of_authority, expires_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		lic.AgentID,
		lic.State,
		lic.LicenseNumber,
		lic.LineOfAuthority,
		lic.ExpiresAt,
	).Scan(&lic.ID, &lic.CreatedAt)
}

func (r *licenseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM licenses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *licenseRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.License, error) {
	const query = `
        SELECT id, agent_id, state, license_number, line_of_authority, expires_at, created_at
        FROM licenses WHERE agent_id=$1 ORDER BY state`

	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.License
	for rows.Next() {
		var lic domain.License
		if err := rows.Scan(
			&lic.ID,
			&lic.AgentID,
			&lic.State,
			&lic.LicenseNumber,
			&lic.LineOfAuthority,
			&lic.ExpiresAt,
			&lic.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, lic)
	}
	return result, rows.Err()
}
