package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// CalendarNoteRepository manages dated notes on the shared calendar.
type CalendarNoteRepository interface {
	Create(ctx context.Context, note *domain.CalendarNote) error
	Delete(ctx context.Context, id string) error
	ListByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarNote, error)
}

type calendarNoteRepository struct {
	db Querier
}

// NewCalendarNoteRepository builds repository.
func NewCalendarNoteRepository(db Querier) CalendarNoteRepository {
	return &calendarNoteRepository{db: db}
}

func (r *calendarNoteRepository) Create(ctx context.Context, note *domain.CalendarNote) error {
	const query = `
        INSERT INTO calendar_notes (user_id, note_date, note)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		note.UserID,
		note.Date,
		note.Note,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *calendarNoteRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM calendar_notes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *calendarNoteRepository) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarNote, error) {
	const query = `
        SELECT id, user_id, note_date, note, created_at
        FROM calendar_notes
        WHERE user_id=$1 AND note_date >= $2 AND note_date <= $3
        ORDER BY note_date`

	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CalendarNote
	for rows.Next() {
		var note domain.CalendarNote
		if err := rows.Scan(&note.ID, &note.UserID, &note.Date, &note.Note, &note.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
