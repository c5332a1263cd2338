package dto

import (
	"time"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// ClientRequest payload for create and update.
type ClientRequest struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	AgentID      *string    `json:"agent_id"`
	SSN          string     `json:"ssn"`
	BankName     string     `json:"bank_name"`
	BankAccount  string     `json:"bank_account"`
	MedicalNotes string     `json:"medical_notes"`
}

// AssignLeadRequest payload.
type AssignLeadRequest struct {
	AgentID string `json:"agent_id"`
}

// ClientResponse full client view. Staff and the assigned agent see the
// sensitive fields; other callers get the redacted form.
type ClientResponse struct {
	ID           string              `json:"id"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	DateOfBirth  *time.Time          `json:"date_of_birth,omitempty"`
	Status       domain.ClientStatus `json:"status"`
	AgentID      *string             `json:"agent_id"`
	JoinDate     time.Time           `json:"join_date"`
	SSN          string              `json:"ssn,omitempty"`
	BankName     string              `json:"bank_name,omitempty"`
	BankAccount  string              `json:"bank_account,omitempty"`
	MedicalNotes string              `json:"medical_notes,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewClientResponse maps a client, including sensitive fields only when
// requested.
func NewClientResponse(client *domain.Client, includeSensitive bool) ClientResponse {
	resp := ClientResponse{
		ID:          client.ID,
		FirstName:   client.FirstName,
		LastName:    client.LastName,
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		DateOfBirth: client.DateOfBirth,
		Status:      client.Status,
		AgentID:     client.AgentID,
		JoinDate:    client.JoinDate,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
	if includeSensitive {
		resp.SSN = client.SSN
		resp.BankName = client.BankName
		resp.BankAccount = client.BankAccount
		resp.MedicalNotes = client.MedicalNotes
	}
	return resp
}
