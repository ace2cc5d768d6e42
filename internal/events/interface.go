package events

import "context"

// EventPublisher is implemented by anything that accepts change events.
// Services depend on this interface rather than on the Hub.
type EventPublisher interface {
	// SendEvent queues an event for delivery
	SendEvent(event Event) error
}

// EventSubscriber hands out per-user event streams
type EventSubscriber interface {
	Subscribe(ctx context.Context, userID string) (*Subscription, error)
}

// Compile-time verification that *Hub implements both sides
var (
	_ EventPublisher  = (*Hub)(nil)
	_ EventSubscriber = (*Hub)(nil)
)
