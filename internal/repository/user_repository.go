package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// UserRepository defines persistence access for login identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListBroadcastRecipients(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	db Querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, title, verified)
        VALUES ($1, LOWER($2), $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Title,
		user.Verified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=LOWER($2), password_hash=$3, role=$4, title=$5, verified=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.db.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Title,
		user.Verified,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, title, verified, created_at, updated_at
        FROM users WHERE id=$1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, title, verified, created_at, updated_at
        FROM users WHERE email=LOWER($1)`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

// ListBroadcastRecipients returns sub-admins plus users paired with an
// ACTIVE agent; this is the fan-out set for admin broadcasts.
func (r *userRepository) ListBroadcastRecipients(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.title, u.verified, u.created_at, u.updated_at
        FROM users u
        LEFT JOIN agents a ON a.user_id = u.id
        WHERE u.role = 'SUB_ADMIN' OR (u.role = 'AGENT' AND a.status = 'ACTIVE')
        ORDER BY u.name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Title,
			&user.Verified,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Title,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
