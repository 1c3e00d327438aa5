package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	ID    string
	Count int
}

func TestQueuePublishConsumeAck(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[testPayload](config)

	ctx := context.Background()
	payload := testPayload{ID: "job-1", Count: 1}

	err := queue.Publish(ctx, &payload)
	require.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	require.NoError(t, message.Ack())
	// Acknowledging twice is an error.
	assert.Error(t, message.Ack())
}

func TestQueueNackRedelivers(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[testPayload](config)

	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "job-1"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(fmt.Errorf("store unreachable")))

	consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	redelivered, err := queue.Consume(consumeCtx)
	require.NoError(t, err)
	assert.Equal(t, "job-1", redelivered.T().ID)
	require.NoError(t, redelivered.Ack())
}

func TestQueueDeadLetterAfterRetries(t *testing.T) {
	config := Config{MaxRetries: 2, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 10}
	queue := NewQueue[testPayload](config)

	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "job-1"}))

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err)
		require.NoError(t, message.Nack(fmt.Errorf("attempt %d", attempt)))
	}

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, queue.Size())
}

func TestRedeliveriesIndependentWhenBufferFull(t *testing.T) {
	config := Config{MaxRetries: 3, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 2}
	queue := NewQueue[testPayload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "job-1"}))
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "job-2"}))
	first, err := queue.Consume(ctx)
	require.NoError(t, err)
	second, err := queue.Consume(ctx)
	require.NoError(t, err)

	// Fill the buffer so both redelivery goroutines have to wait for a
	// slot; neither may block the other.
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "job-3"}))
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "job-4"}))
	require.NoError(t, first.Nack(fmt.Errorf("store unreachable")))
	require.NoError(t, second.Nack(fmt.Errorf("store unreachable")))

	seen := map[string]int{}
	for i := 0; i < 4; i++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err)
		seen[message.T().ID]++
		require.NoError(t, message.Ack())
	}
	assert.Equal(t, map[string]int{"job-1": 1, "job-2": 1, "job-3": 1, "job-4": 1}, seen)
}

func TestRetryDelayGrowsExponentially(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 2 * time.Second
	queue := NewQueue[testPayload](config)

	assert.Equal(t, 2*time.Second, queue.retryDelay(1))
	assert.Equal(t, 4*time.Second, queue.retryDelay(2))
	assert.Equal(t, 8*time.Second, queue.retryDelay(3))
}

func TestConsumeHonoursContext(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.Error(t, err)
}
