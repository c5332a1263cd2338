package domain

import "time"

// License is a state insurance license held by an agent.
type License struct {
	ID            string
	AgentID       string
	State         string
	LicenseNumber string
	LineOfAuthority string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// CalendarNote is a dated note on the shared agency calendar.
type CalendarNote struct {
	ID        string
	UserID    string
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// Testimonial is a published client quote shown on agent pages.
type Testimonial struct {
	ID         string
	AgentID    *string
	Author     string
	Quote      string
	Published  bool
	CreatedAt  time.Time
}
