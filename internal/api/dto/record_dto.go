package dto

import (
	"time"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// TaskRequest payload for create and update.
type TaskRequest struct {
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	ClientID  *string    `json:"client_id"`
	DueDate   *time.Time `json:"due_date"`
	Completed bool       `json:"completed"`
}

// TaskResponse task view.
type TaskResponse struct {
	ID        string     `json:"id"`
	ClientID  *string    `json:"client_id,omitempty"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTaskResponse maps a task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		ClientID:  task.ClientID,
		Title:     task.Title,
		Notes:     task.Notes,
		DueDate:   task.DueDate,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// InteractionRequest payload.
type InteractionRequest struct {
	ClientID   string    `json:"client_id"`
	Kind       string    `json:"kind"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InteractionResponse interaction view.
type InteractionResponse struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewInteractionResponse maps an interaction.
func NewInteractionResponse(in *domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:         in.ID,
		ClientID:   in.ClientID,
		UserID:     in.UserID,
		Kind:       in.Kind,
		Summary:    in.Summary,
		OccurredAt: in.OccurredAt,
		CreatedAt:  in.CreatedAt,
	}
}

// LicenseRequest payload.
type LicenseRequest struct {
	State           string    `json:"state"`
	LicenseNumber   string    `json:"license_number"`
	LineOfAuthority string    `json:"line_of_authority"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// LicenseResponse license view.
type LicenseResponse struct {
	ID              string    `json:"id"`
	AgentID         string    `json:"agent_id"`
	State           string    `json:"state"`
	LicenseNumber   string    `json:"license_number"`
	LineOfAuthority string    `json:"line_of_authority"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// NewLicenseResponse maps a license.
func NewLicenseResponse(lic *domain.License) LicenseResponse {
	return LicenseResponse{
		ID:              lic.ID,
		AgentID:         lic.AgentID,
		State:           lic.State,
		LicenseNumber:   lic.LicenseNumber,
		LineOfAuthority: lic.LineOfAuthority,
		ExpiresAt:       lic.ExpiresAt,
	}
}

// CalendarNoteRequest payload.
type CalendarNoteRequest struct {
	Date time.Time `json:"date"`
	Note string    `json:"note"`
}

// CalendarNoteResponse calendar note view.
type CalendarNoteResponse struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Note string    `json:"note"`
}

// NewCalendarNoteResponse maps a calendar note.
func NewCalendarNoteResponse(cn *domain.CalendarNote) CalendarNoteResponse {
	return CalendarNoteResponse{ID: cn.ID, Date: cn.Date, Note: cn.Note}
}

// TestimonialRequest payload.
type TestimonialRequest struct {
	AgentID   *string `json:"agent_id"`
	Author    string  `json:"author"`
	Quote     string  `json:"quote"`
	Published bool    `json:"published"`
}

// TestimonialResponse testimonial view.
type TestimonialResponse struct {
	ID        string  `json:"id"`
	AgentID   *string `json:"agent_id,omitempty"`
	Author    string  `json:"author"`
	Quote     string  `json:"quote"`
	Published bool    `json:"published"`
}

// NewTestimonialResponse maps a testimonial.
func NewTestimonialResponse(t *domain.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:        t.ID,
		AgentID:   t.AgentID,
		Author:    t.Author,
		Quote:     t.Quote,
		Published: t.Published,
	}
}

// DashboardResponse summary view.
type DashboardResponse struct {
	Leads               int `json:"leads"`
	ActiveClients       int `json:"active_clients"`
	InactiveClients     int `json:"inactive_clients"`
	ActiveAgents        int `json:"active_agents"`
	PendingAgents       int `json:"pending_agents"`
	OpenTasks           int `json:"open_tasks"`
	UnreadNotifications int `json:"unread_notifications"`
	UnreadMessages      int `json:"unread_messages"`
}
