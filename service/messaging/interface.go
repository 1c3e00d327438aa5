package messaging

import (
	"context"
)

// Queue is an abstract at-least-once message queue for any payload type.
// Implementations must redeliver a message that was Nack-ed until the retry
// budget is exhausted, then park it on a dead-letter queue.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue.
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message, blocking until one is available
	// or ctx is done.
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue.
type Message[T any] interface {
	// T returns the payload of this message.
	T() *T

	// Ack acknowledges successful processing of this message.
	Ack() error

	// Nack indicates failure; the queue schedules a redelivery or
	// dead-letters the message once retries are exhausted.
	Nack(err error) error
}
