// Package queue defines the message payloads exchanged over the
// broker and the background consumer that records them.
package queue

// UserRegisteredEvent is published when a new account is created. It
// carries enough for downstream consumers to log or notify without
// querying the primary database. It never includes credentials.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	RegisteredAt string `json:"registered_at"`
}
