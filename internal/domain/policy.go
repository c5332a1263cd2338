package domain

import "time"

// PolicyStatus enumerates lifecycle states for policies.
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "ACTIVE"
	PolicyStatusExpired   PolicyStatus = "EXPIRED"
	PolicyStatusCancelled PolicyStatus = "CANCELLED"
)

// Policy is an insurance contract held by a client.
type Policy struct {
	ID            string
	ClientID      string
	PolicyNumber  string
	PolicyType    string
	AnnualPremium float64
	Status        PolicyStatus
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
