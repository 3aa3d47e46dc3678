package pubsub

import "context"

const (
	// CreatedEvent marks a new resource appearing
	CreatedEvent EventType = "created"
	// UpdatedEvent marks an existing resource changing
	UpdatedEvent EventType = "updated"
	// DeletedEvent marks a resource going away
	DeletedEvent EventType = "deleted"
	// FinishedEvent marks a resource lifecycle completing
	FinishedEvent EventType = "finished"
)

// Subscriber exposes the receiving side of the broker
type Subscriber[T any] interface {
	// Subscribe returns a read-only event channel that closes when the
	// context is done
	Subscribe(context.Context) <-chan Event[T]
}

type (
	// EventType identifies the kind of event
	EventType string

	// Event is one occurrence in a resource's lifecycle
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Publisher exposes the sending side of the broker
	Publisher[T any] interface {
		Publish(EventType, T)
	}
)
