package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// AgentRepository defines persistence access for agents. The counter
// mutations recompute conversion_rate in the same statement so the
// rate == client_count/leads invariant never lapses between writes.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	Update(ctx context.Context, agent *domain.Agent) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Agent, error)
	List(ctx context.Context, statuses []domain.AgentStatus) ([]domain.Agent, error)
	AddLeads(ctx context.Context, id string, delta int) error
	AddClients(ctx context.Context, id string, delta int) error
}

type agentRepository struct {
	db Querier
}

// NewAgentRepository returns a Postgres-backed implementation.
func NewAgentRepository(db Querier) AgentRepository {
	return &agentRepository{db: db}
}

const agentColumns = `id, user_id, name, slug, email, phone, bio, leads, client_count,
        conversion_rate, commission_rate, status, join_date, created_at, updated_at`

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (user_id, name, slug, email, phone, bio, commission_rate, status, join_date)
        VALUES ($1, $2, $3, LOWER($4), $5, $6, $7, $8, $9)
        RETURNING id, leads, client_count, conversion_rate, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		agent.UserID,
		agent.Name,
		agent.Slug,
		agent.Email,
		agent.Phone,
		agent.Bio,
		agent.CommissionRate,
		agent.Status,
		agent.JoinDate,
	).Scan(&agent.ID, &agent.Leads, &agent.ClientCount, &agent.ConversionRate, &agent.CreatedAt, &agent.UpdatedAt)
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	const query = `
        UPDATE agents SET user_id=$1, name=$2, slug=$3, email=LOWER($4), phone=$5, bio=$6,
            commission_rate=$7, status=$8, join_date=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.db.Exec(ctx, query,
		agent.UserID,
		agent.Name,
		agent.Slug,
		agent.Email,
		agent.Phone,
		agent.Bio,
		agent.CommissionRate,
		agent.Status,
		agent.JoinDate,
		agent.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM agents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id=$1`, id))
}

func (r *agentRepository) GetBySlug(ctx context.Context, slug string) (*domain.Agent, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE slug=$1`, slug))
}

func (r *agentRepository) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE user_id=$1`, userID))
}

func (r *agentRepository) List(ctx context.Context, statuses []domain.AgentStatus) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents`
	args := []any{}
	if len(statuses) > 0 {
		query += ` WHERE status = ANY($1)`
		strs := make([]string, 0, len(statuses))
		for _, s := range statuses {
			strs = append(strs, string(s))
		}
		args = append(args, strs)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Agent
	for rows.Next() {
		agent, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *agent)
	}
	return result, rows.Err()
}

// AddLeads moves the lead counter by delta (floored at zero) and recomputes
// conversion_rate atomically.
func (r *agentRepository) AddLeads(ctx context.Context, id string, delta int) error {
	const query = `
        UPDATE agents SET
            leads = GREATEST(leads + $1, 0),
            conversion_rate = CASE WHEN GREATEST(leads + $1, 0) > 0
                THEN client_count::double precision / GREATEST(leads + $1, 0)
                ELSE 0 END,
            updated_at = NOW()
        WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddClients moves the client counter by delta (floored at zero) and
// recomputes conversion_rate atomically.
func (r *agentRepository) AddClients(ctx context.Context, id string, delta int) error {
	const query = `
        UPDATE agents SET
            client_count = GREATEST(client_count + $1, 0),
            conversion_rate = CASE WHEN leads > 0
                THEN GREATEST(client_count + $1, 0)::double precision / leads
                ELSE 0 END,
            updated_at = NOW()
        WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) scanOne(row pgx.Row) (*domain.Agent, error) {
	var agent domain.Agent
	if err := row.Scan(
		&agent.ID,
		&agent.UserID,
		&agent.Name,
		&agent.Slug,
		&agent.Email,
		&agent.Phone,
		&agent.Bio,
		&agent.Leads,
		&agent.ClientCount,
		&agent.ConversionRate,
		&agent.CommissionRate,
		&agent.Status,
		&agent.JoinDate,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}
