package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// AgencyService groups the secondary record books: client interaction logs,
// agent licenses, the shared calendar and published testimonials.
type AgencyService struct {
	repos *repository.Registry
}

// NewAgencyService constructs the service.
func NewAgencyService(repos *repository.Registry) *AgencyService {
	return &AgencyService{repos: repos}
}

// InteractionInput carries writable interaction fields.
type InteractionInput struct {
	ClientID   string
	Kind       string
	Summary    string
	OccurredAt time.Time
}

// LogInteraction records a touchpoint with a client on behalf of the actor.
func (s *AgencyService) LogInteraction(ctx context.Context, actor *domain.User, input InteractionInput) (*domain.Interaction, error) {
	if input.ClientID == "" {
		return nil, apperrors.NewValidationError("client_id is required", nil)
	}
	if input.Summary == "" {
		return nil, apperrors.NewValidationError("summary is required", nil)
	}
	if _, err := s.repos.Clients.GetByID(ctx, input.ClientID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": input.ClientID})
		}
		return nil, err
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	in := &domain.Interaction{
		ClientID:   input.ClientID,
		UserID:     actor.ID,
		Kind:       input.Kind,
		Summary:    input.Summary,
		OccurredAt: occurredAt,
	}
	if err := s.repos.Interactions.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// DeleteInteraction removes a logged touchpoint.
func (s *AgencyService) DeleteInteraction(ctx context.Context, id string) error {
	if err := s.repos.Interactions.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("interaction", map[string]any{"interaction_id": id})
		}
		return err
	}
	return nil
}

// ListInteractions returns a client's interaction log, newest first.
func (s *AgencyService) ListInteractions(ctx context.Context, clientID string) ([]domain.Interaction, error) {
	return s.repos.Interactions.ListByClient(ctx, clientID)
}

// LicenseInput carries writable license fields.
type LicenseInput struct {
	AgentID         string
	State           string
	LicenseNumber   string
	LineOfAuthority string
	ExpiresAt       time.Time
}

// AddLicense records a state license for an agent.
func (s *AgencyService) AddLicense(ctx context.Context, input LicenseInput) (*domain.License, error) {
	if input.State == "" || input.LicenseNumber == "" {
		return nil, apperrors.NewValidationError("state and license_number are required", nil)
	}
	if _, err := s.repos.Agents.GetByID(ctx, input.AgentID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": input.AgentID})
		}
		return nil, err
	}
	lic := &domain.License{
		AgentID:         input.AgentID,
		State:           input.State,
		LicenseNumber:   input.LicenseNumber,
		LineOfAuthority: input.LineOfAuthority,
		ExpiresAt:       input.ExpiresAt,
	}
	if err := s.repos.Licenses.Create(ctx, lic); err != nil {
		return nil, err
	}
	return lic, nil
}

// RemoveLicense deletes a license record.
func (s *AgencyService) RemoveLicense(ctx context.Context, id string) error {
	if err := s.repos.Licenses.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("license", map[string]any{"license_id": id})
		}
		return err
	}
	return nil
}

// ListLicenses returns an agent's licenses.
func (s *AgencyService) ListLicenses(ctx context.Context, agentID string) ([]domain.License, error) {
	return s.repos.Licenses.ListByAgent(ctx, agentID)
}

// AddCalendarNote puts a dated note on the actor's calendar.
func (s *AgencyService) AddCalendarNote(ctx context.Context, actor *domain.User, date time.Time, note string) (*domain.CalendarNote, error) {
	if note == "" {
		return nil, apperrors.NewValidationError("note is required", nil)
	}
	cn := &domain.CalendarNote{
		UserID: actor.ID,
		Date:   date,
		Note:   note,
	}
	if err := s.repos.CalendarNotes.Create(ctx, cn); err != nil {
		return nil, err
	}
	return cn, nil
}

// RemoveCalendarNote deletes a calendar note.
func (s *AgencyService) RemoveCalendarNote(ctx context.Context, id string) error {
	if err := s.repos.CalendarNotes.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("calendar note", map[string]any{"note_id": id})
		}
		return err
	}
	return nil
}

// ListCalendarNotes returns the actor's notes inside the date range.
func (s *AgencyService) ListCalendarNotes(ctx context.Context, actor *domain.User, from, to time.Time) ([]domain.CalendarNote, error) {
	return s.repos.CalendarNotes.ListByRange(ctx, actor.ID, from, to)
}

// TestimonialInput carries writable testimonial fields.
type TestimonialInput struct {
	AgentID   *string
	Author    string
	Quote     string
	Published bool
}

// AddTestimonial records a client quote.
func (s *AgencyService) AddTestimonial(ctx context.Context, input TestimonialInput) (*domain.Testimonial, error) {
	if input.Quote == "" {
		return nil, apperrors.NewValidationError("quote is required", nil)
	}
	t := &domain.Testimonial{
		AgentID:   input.AgentID,
		Author:    input.Author,
		Quote:     input.Quote,
		Published: input.Published,
	}
	if err := s.repos.Testimonials.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTestimonial merges fields, including the published flag.
func (s *AgencyService) UpdateTestimonial(ctx context.Context, id string, input TestimonialInput) (*domain.Testimonial, error) {
	t, err := s.repos.Testimonials.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("testimonial", map[string]any{"testimonial_id": id})
		}
		return nil, err
	}
	t.AgentID = input.AgentID
	t.Author = input.Author
	t.Quote = input.Quote
	t.Published = input.Published
	if err := s.repos.Testimonials.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RemoveTestimonial deletes a testimonial.
func (s *AgencyService) RemoveTestimonial(ctx context.Context, id string) error {
	if err := s.repos.Testimonials.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("testimonial", map[string]any{"testimonial_id": id})
		}
		return err
	}
	return nil
}

// ListTestimonials returns testimonials, optionally published only.
func (s *AgencyService) ListTestimonials(ctx context.Context, publishedOnly bool) ([]domain.Testimonial, error) {
	return s.repos.Testimonials.List(ctx, publishedOnly)
}
