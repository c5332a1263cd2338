package domain

import "time"

// Role enumerates access levels carried by a login.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSubAdmin Role = "SUB_ADMIN"
	RoleAgent    Role = "AGENT"
)

// IsStaff reports whether the role may use admin surfaces.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSubAdmin
}

// User is the login identity behind every actor in the system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Title        string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
