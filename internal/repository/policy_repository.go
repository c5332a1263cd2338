package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// PolicyRepository defines persistence access for policies.
type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.Policy) error
	Update(ctx context.Context, policy *domain.Policy) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Policy, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Policy, error)
	ListActiveByAgent(ctx context.Context, agentID string) ([]domain.Policy, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]domain.Policy, error)
}

type policyRepository struct {
	db Querier
}

// NewPolicyRepository returns a Postgres-backed implementation.
func NewPolicyRepository(db Querier) PolicyRepository {
	return &policyRepository{db: db}
}

const policyColumns = `id, client_id, policy_number, policy_type, annual_premium, status,
        start_date, end_date, created_at, updated_at`

func (r *policyRepository) Create(ctx context.Context, policy *domain.Policy) error {
	const query = `
        INSERT INTO policies (client_id, policy_number, policy_type, annual_premium, status, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		policy.ClientID,
		policy.PolicyNumber,
		policy.PolicyType,
		policy.AnnualPremium,
		policy.Status,
		policy.StartDate,
		policy.EndDate,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)
}

func (r *policyRepository) Update(ctx context.Context, policy *domain.Policy) error {
	const query = `
        UPDATE policies SET client_id=$1, policy_number=$2, policy_type=$3, annual_premium=$4,
            status=$5, start_date=$6, end_date=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.db.Exec(ctx, query,
		policy.ClientID,
		policy.PolicyNumber,
		policy.PolicyType,
		policy.AnnualPremium,
		policy.Status,
		policy.StartDate,
		policy.EndDate,
		policy.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *policyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM policies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *policyRepository) GetByID(ctx context.Context, id string) (*domain.Policy, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+policyColumns+` FROM policies WHERE id=$1`, id))
}

func (r *policyRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Policy, error) {
	const query = `SELECT ` + policyColumns + ` FROM policies WHERE client_id=$1 ORDER BY start_date DESC`
	return r.list(ctx, query, clientID)
}

// ListActiveByAgent returns ACTIVE policies whose owning client is assigned
// to the agent; this is the commission aggregation input.
func (r *policyRepository) ListActiveByAgent(ctx context.Context, agentID string) ([]domain.Policy, error) {
	const query = `
        SELECT p.id, p.client_id, p.policy_number, p.policy_type, p.annual_premium, p.status,
            p.start_date, p.end_date, p.created_at, p.updated_at
        FROM policies p
        JOIN clients c ON c.id = p.client_id
        WHERE c.agent_id=$1 AND p.status='ACTIVE'
        ORDER BY p.start_date DESC`
	return r.list(ctx, query, agentID)
}

// ListExpiring returns ACTIVE policies ending within [from, to].
func (r *policyRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]domain.Policy, error) {
	const query = `
        SELECT ` + policyColumns + ` FROM policies
        WHERE status='ACTIVE' AND end_date >= $1 AND end_date <= $2
        ORDER BY end_date`
	return r.list(ctx, query, from, to)
}

func (r *policyRepository) list(ctx context.Context, query string, args ...any) ([]domain.Policy, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Policy
	for rows.Next() {
		policy, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *policy)
	}
	return result, rows.Err()
}

func (r *policyRepository) scanOne(row pgx.Row) (*domain.Policy, error) {
	var policy domain.Policy
	if err := row.Scan(
		&policy.ID,
		&policy.ClientID,
		&policy.PolicyNumber,
		&policy.PolicyType,
		&policy.AnnualPremium,
		&policy.Status,
		&policy.StartDate,
		&policy.EndDate,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}
