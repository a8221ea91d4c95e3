// Package notify delivers owner notifications for accepted submissions and
// confirmed reservations. Delivery is asynchronous and best-effort: requests
// never wait on it, and a full queue drops the event rather than blocking.
package notify

import "context"

// Event is one owner notification.
type Event struct {
	// Kind is "contact" or "reservation".
	Kind  string
	Title string
	Body  string
}

// Publisher receives events from the services. Implementations must be
// non-blocking; Publish must not panic.
type Publisher interface {
	Publish(Event)
}

// Noop is the default publisher; it drops events.
type Noop struct{}

func (Noop) Publish(Event) {}

// Sink performs the actual delivery of one event.
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}
