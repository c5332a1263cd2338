package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
)

type taskRepo struct {
	s *Store
}

func (r *taskRepo) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task.ID = newID()
	task.CreatedAt = now()
	task.UpdatedAt = task.CreatedAt
	clone := *task
	r.s.tasks[task.ID] = &clone
	return nil
}

func (r *taskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	task.UpdatedAt = now()
	clone := *task
	r.s.tasks[task.ID] = &clone
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (r *taskRepo) ListByUser(_ context.Context, userID string, openOnly bool) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Task
	for _, task := range r.s.tasks {
		if task.UserID != userID {
			continue
		}
		if openOnly && task.Completed {
			continue
		}
		result = append(result, *task)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type interactionRepo struct {
	s *Store
}

func (r *interactionRepo) Create(_ context.Context, in *domain.Interaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	in.ID = newID()
	in.CreatedAt = now()
	clone := *in
	r.s.interactions[in.ID] = &clone
	return nil
}

func (r *interactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.interactions[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.interactions, id)
	return nil
}

func (r *interactionRepo) ListByClient(_ context.Context, clientID string) ([]domain.Interaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Interaction
	for _, in := range r.s.interactions {
		if in.ClientID == clientID {
			result = append(result, *in)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	return result, nil
}

type licenseRepo struct {
	s *Store
}

func (r *licenseRepo) Create(_ context.Context, lic *domain.License) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lic.ID = newID()
	lic.CreatedAt = now()
	clone := *lic
	r.s.licenses[lic.ID] = &clone
	return nil
}

func (r *licenseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.licenses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.licenses, id)
	return nil
}

func (r *licenseRepo) ListByAgent(_ context.Context, agentID string) ([]domain.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.License
	for _, lic := range r.s.licenses {
		if lic.AgentID == agentID {
			result = append(result, *lic)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].State < result[j].State })
	return result, nil
}

type calendarNoteRepo struct {
	s *Store
}

func (r *calendarNoteRepo) Create(_ context.Context, note *domain.CalendarNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	note.ID = newID()
	note.CreatedAt = now()
	clone := *note
	r.s.calendarNotes[note.ID] = &clone
	return nil
}

func (r *calendarNoteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.calendarNotes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.calendarNotes, id)
	return nil
}

func (r *calendarNoteRepo) ListByRange(_ context.Context, userID string, from, to time.Time) ([]domain.CalendarNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.CalendarNote
	for _, note := range r.s.calendarNotes {
		if note.UserID != userID {
			continue
		}
		if note.Date.Before(from) || note.Date.After(to) {
			continue
		}
		result = append(result, *note)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

type testimonialRepo struct {
	s *Store
}

func (r *testimonialRepo) Create(_ context.Context, t *domain.Testimonial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t.ID = newID()
	t.CreatedAt = now()
	clone := *t
	r.s.testimonials[t.ID] = &clone
	return nil
}

func (r *testimonialRepo) Update(_ context.Context, t *domain.Testimonial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.testimonials[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *t
	r.s.testimonials[t.ID] = &clone
	return nil
}

func (r *testimonialRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.testimonials[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.testimonials, id)
	return nil
}

func (r *testimonialRepo) GetByID(_ context.Context, id string) (*domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.testimonials[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (r *testimonialRepo) List(_ context.Context, publishedOnly bool) ([]domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Testimonial
	for _, t := range r.s.testimonials {
		if publishedOnly && !t.Published {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
