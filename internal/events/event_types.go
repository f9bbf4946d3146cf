package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginRejected  EventType = "login_rejected"
	EventFederatedLogin EventType = "federated_login"
	EventLogout         EventType = "logout"
)

// Event represents an auth activity event emitted by services.
// Rejected logins intentionally carry no account ID and no cause:
// whatever the validator swallowed stays swallowed.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	AccountID string    `json:"account_id,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
