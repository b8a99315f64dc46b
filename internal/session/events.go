// internal/session/events.go
package session

import "time"

// EventType enumerates auth-state transitions the Manager publishes.
type EventType string

const (
	EventSignedIn       EventType = "SignedIn"
	EventSignedOut      EventType = "SignedOut"
	EventTokenRefreshed EventType = "TokenRefreshed"
	EventProfileUpdated EventType = "ProfileUpdated"
)

// Event is a typed auth-state notification.
type Event struct {
	Type   EventType
	UserID string
	At     time.Time
}
