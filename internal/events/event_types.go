package events

import (
	"time"

	"github.com/spec-kit/agency-crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadAssigned     EventType = "lead_assigned"
	EventLeadConverted    EventType = "lead_converted"
	EventAgentApproved    EventType = "agent_approved"
	EventMessageSent      EventType = "message_sent"
	EventPolicyRenewalDue EventType = "policy_renewal_due"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadAssignedPayload payload.
type LeadAssignedPayload struct {
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	AgentID     string `json:"agent_id"`
	AgentUserID string `json:"agent_user_id"`
}

// LeadConvertedPayload payload.
type LeadConvertedPayload struct {
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	AgentID     string `json:"agent_id"`
	AgentUserID string `json:"agent_user_id"`
}

// AgentApprovedPayload payload.
type AgentApprovedPayload struct {
	AgentID     string      `json:"agent_id"`
	AgentUserID string      `json:"agent_user_id"`
	Role        domain.Role `json:"role"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	ReceiverID string `json:"receiver_id"`
	Broadcast  bool   `json:"broadcast"`
}

// PolicyRenewalDuePayload payload.
type PolicyRenewalDuePayload struct {
	PolicyID     string    `json:"policy_id"`
	PolicyNumber string    `json:"policy_number"`
	ClientID     string    `json:"client_id"`
	ClientName   string    `json:"client_name"`
	AgentUserID  string    `json:"agent_user_id"`
	EndDate      time.Time `json:"end_date"`
}
