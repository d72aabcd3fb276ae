package session

import (
	"context"
	"time"
)

// EventType names a session transition worth recording.
type EventType string

const (
	EventLogin      EventType = "login"
	EventRegistered EventType = "registered"
	EventLogout     EventType = "logout"
	EventExpired    EventType = "expired"
)

// Event is emitted on every transition into or out of the authenticated
// state.
type Event struct {
	Type     EventType `json:"type"`
	ClientID string    `json:"client_id"`
	UserID   string    `json:"user_id,omitempty"`
	Email    string    `json:"email,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher delivers session events.  Failures never affect the session.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
