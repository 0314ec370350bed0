// Package pubsub provides a generic publish/subscribe event system used to
// fan editor observations out to the shell.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	// UpdatedEvent carries new state (face loaded, glyph changed, UI state).
	UpdatedEvent EventType = "updated"
	// ErrorEvent carries a failure the shell should surface to the user.
	ErrorEvent EventType = "error"
	// ClosedEvent signals that the publishing resource went away.
	ClosedEvent EventType = "closed"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
