package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// ClientFilter narrows client listings.
type ClientFilter struct {
	AgentID  *string
	Statuses []domain.ClientStatus
	Limit    int
	Offset   int
}

// ClientRepository defines persistence access for clients and leads.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	UnassignAgent(ctx context.Context, agentID string) (int, error)
	CountByStatus(ctx context.Context) (map[domain.ClientStatus]int, error)
}

type clientRepository struct {
	db Querier
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(db Querier) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, first_name, last_name, email, phone, address, date_of_birth, status,
        agent_id, join_date, ssn, bank_name, bank_account, medical_notes, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (first_name, last_name, email, phone, address, date_of_birth, status,
            agent_id, join_date, ssn, bank_name, bank_account, medical_notes)
        VALUES ($1,$2,LOWER($3),$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Address,
		client.DateOfBirth,
		client.Status,
		client.AgentID,
		client.JoinDate,
		client.SSN,
		client.BankName,
		client.BankAccount,
		client.MedicalNotes,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET first_name=$1, last_name=$2, email=LOWER($3), phone=$4, address=$5,
            date_of_birth=$6, status=$7, agent_id=$8, join_date=$9, ssn=$10, bank_name=$11,
            bank_account=$12, medical_notes=$13, updated_at=NOW()
        WHERE id=$14`

	cmd, err := r.db.Exec(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Address,
		client.DateOfBirth,
		client.Status,
		client.AgentID,
		client.JoinDate,
		client.SSN,
		client.BankName,
		client.BankAccount,
		client.MedicalNotes,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.AgentID != nil {
		query += ` AND agent_id=$` + itoa(idx)
		args = append(args, *filter.AgentID)
		idx++
	}
	if len(filter.Statuses) > 0 {
		strs := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			strs = append(strs, string(s))
		}
		query += ` AND status = ANY($` + itoa(idx) + `)`
		args = append(args, strs)
		idx++
	}
	query += ` ORDER BY join_date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT $` + itoa(idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += ` OFFSET $` + itoa(idx)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

// UnassignAgent clears agent_id on every client pointing at the agent and
// returns the number of rows touched.
func (r *clientRepository) UnassignAgent(ctx context.Context, agentID string) (int, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE clients SET agent_id=NULL, updated_at=NOW() WHERE agent_id=$1`, agentID)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *clientRepository) CountByStatus(ctx context.Context) (map[domain.ClientStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM clients GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ClientStatus]int)
	for rows.Next() {
		var status domain.ClientStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *clientRepository) scanOne(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.DateOfBirth,
		&client.Status,
		&client.AgentID,
		&client.JoinDate,
		&client.SSN,
		&client.BankName,
		&client.BankAccount,
		&client.MedicalNotes,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
