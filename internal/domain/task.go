package domain

import "time"

// Task is a to-do item owned by a user, optionally tied to a client.
type Task struct {
	ID        string
	UserID    string
	ClientID  *string
	Title     string
	Notes     string
	DueDate   *time.Time
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interaction is one logged touchpoint with a client (call, email, meeting).
type Interaction struct {
	ID        string
	ClientID  string
	UserID    string
	Kind      string
	Summary   string
	OccurredAt time.Time
	CreatedAt time.Time
}
