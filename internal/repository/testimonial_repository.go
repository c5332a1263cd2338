package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// TestimonialRepository manages published client quotes.
type TestimonialRepository interface {
	Create(ctx context.Context, t *domain.Testimonial) error
	Update(ctx context.Context, t *domain.Testimonial) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Testimonial, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Testimonial, error)
}

type testimonialRepository struct {
	db Querier
}

// NewTestimonialRepository builds repository.
func NewTestimonialRepository(db Querier) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func (r *testimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	const query = `
        INSERT INTO testimonials (agent_id, author, quote, published)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		t.AgentID,
		t.Author,
		t.Quote,
		t.Published,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *testimonialRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	const query = `
        UPDATE testimonials SET agent_id=$1, author=$2, quote=$3, published=$4
        WHERE id=$5`

	cmd, err := r.db.Exec(ctx, query, t.AgentID, t.Author, t.Quote, t.Published, t.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *testimonialRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *testimonialRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	const query = `
        SELECT id, agent_id, author, quote, published, created_at
        FROM testimonials WHERE id=$1`

	var t domain.Testimonial
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.AgentID, &t.Author, &t.Quote, &t.Published, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *testimonialRepository) List(ctx context.Context, publishedOnly bool) ([]domain.Testimonial, error) {
	query := `SELECT id, agent_id, author, quote, published, created_at FROM testimonials`
	if publishedOnly {
		query += ` WHERE published=TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Testimonial
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.AgentID, &t.Author, &t.Quote, &t.Published, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
