package domain

import "time"

// AgentStatus enumerates lifecycle states for agents.
type AgentStatus string

const (
	AgentStatusPending  AgentStatus = "PENDING"
	AgentStatusActive   AgentStatus = "ACTIVE"
	AgentStatusInactive AgentStatus = "INACTIVE"
)

// Agent models a producer on the agency roster. Leads and ClientCount are
// denormalized counters kept in step by the lead lifecycle; ConversionRate is
// always ClientCount/Leads (0 when Leads is 0) and is recomputed in the same
// statement that moves either counter.
type Agent struct {
	ID             string
	UserID         *string
	Name           string
	Slug           string
	Email          string
	Phone          string
	Bio            string
	Leads          int
	ClientCount    int
	ConversionRate float64
	CommissionRate float64
	Status         AgentStatus
	JoinDate       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AgentPerformance is the read-side commission aggregate for one agent.
type AgentPerformance struct {
	AgentID          string
	TotalPremium     float64
	CommissionEarned float64
	AgencyOverride   float64
	ActivePolicies   int
}
