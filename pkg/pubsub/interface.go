// Package pubsub carries the dashboard visibility channel between
// dashboard processes. A process that pauses or resumes its feeds
// publishes "visible" or "hidden" on the channel; every process
// subscribed to it flips its own visibility signal to match.
package pubsub

import "context"

// Message is one payload received on a channel. For the visibility
// channel Payload is "visible" or "hidden"; other payloads are ignored
// by the reader, not rejected here.
type Message struct {
	Channel string
	Payload string
}

// Publisher announces visibility changes.
type Publisher interface {
	// Publish sends message on channel. Delivery is fire-and-forget: a
	// process not subscribed at that moment never sees it.
	Publish(ctx context.Context, channel string, message string) error
	Close() error
}

// Subscriber feeds a visibility source. The message channel returned by
// Subscribe is closed when the subscription is removed with Unsubscribe
// or when ctx ends, which is how the source notices it should stop.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan Message, error)
	Unsubscribe(ctx context.Context, channels ...string) error
	Close() error
}

// PubSub is what the dashboard process holds: it announces its own
// toggles and listens for everyone else's.
type PubSub interface {
	Publisher
	Subscriber
}
