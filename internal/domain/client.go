package domain

import "time"

// ClientStatus enumerates lifecycle states for clients.
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "LEAD"
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

// Client is a lead or customer record. AgentID is nil while unassigned; the
// PII and medical fields are opaque to the lifecycle logic.
type Client struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	DateOfBirth   *time.Time
	Status        ClientStatus
	AgentID       *string
	JoinDate      time.Time
	SSN           string
	BankName      string
	BankAccount   string
	MedicalNotes  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins the name fields for display and notification text.
func (c *Client) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
