package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// TaskRepository defines persistence access for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, openOnly bool) ([]domain.Task, error)
}

type taskRepository struct {
	db Querier
}

// NewTaskRepository returns a Postgres-backed implementation.
func NewTaskRepository(db Querier) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, user_id, client_id, title, notes, due_date, completed, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (user_id, client_id, title, notes, due_date, completed)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		task.UserID,
		task.ClientID,
		task.Title,
		task.Notes,
		task.DueDate,
		task.Completed,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET client_id=$1, title=$2, notes=$3, due_date=$4, completed=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		task.ClientID,
		task.Title,
		task.Notes,
		task.DueDate,
		task.Completed,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id))
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string, openOnly bool) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1`
	if openOnly {
		query += ` AND completed=FALSE`
	}
	query += ` ORDER BY due_date NULLS LAST, created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		task, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *task)
	}
	return result, rows.Err()
}

func (r *taskRepository) scanOne(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.ClientID,
		&task.Title,
		&task.Notes,
		&task.DueDate,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}
