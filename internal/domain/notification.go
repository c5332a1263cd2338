package domain

import "time"

// NotificationType keys notification records for structured dedup.
type NotificationType string

const (
	NotificationLeadAssigned  NotificationType = "LEAD_ASSIGNED"
	NotificationLeadConverted NotificationType = "LEAD_CONVERTED"
	NotificationAgentApproved NotificationType = "AGENT_APPROVED"
	NotificationNewMessage    NotificationType = "NEW_MESSAGE"
	NotificationRenewalDue    NotificationType = "RENEWAL_DUE"
)

// Notification is an in-app alert for one user. Link is a "<view>/<id>"
// string consumed by the frontend router; PolicyID is set only for
// RENEWAL_DUE records and forms the dedup key together with UserID and Type.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Message   string
	Link      string
	PolicyID  *string
	IsRead    bool
	CreatedAt time.Time
}
