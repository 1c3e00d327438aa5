package fs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type payload struct {
	ActionID string `json:"actionId"`
}

func newTestQueue(t *testing.T) *Queue[payload] {
	t.Helper()
	config := Config{
		BasePath:   fmt.Sprintf("mem://localhost/dispatch/%s", t.Name()),
		MaxRetries: 2,
	}
	queue, err := NewQueue[payload](afs.New(), config)
	require.NoError(t, err)
	return queue
}

func TestPublishConsumeAck(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)

	require.NoError(t, queue.Publish(ctx, &payload{ActionID: "a-1"}))

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "a-1", msg.T().ActionID)
	require.NoError(t, msg.Ack())

	// The message file moved to completed; nothing is left to consume.
	next, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestEmptyQueueReturnsNil(t *testing.T) {
	queue := newTestQueue(t)
	msg, err := queue.Consume(context.Background())
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestNackRedeliversFromFailed(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	require.NoError(t, queue.Publish(ctx, &payload{ActionID: "a-1"}))

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NoError(t, msg.Nack(errors.New("transient failure")))

	// Failed messages are claimed ahead of pending ones.
	retried, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, retried)
	assert.Equal(t, "a-1", retried.T().ActionID)
	require.NoError(t, retried.Ack())
}

func TestExhaustedRetriesDeadLetter(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	require.NoError(t, queue.Publish(ctx, &payload{ActionID: "a-1"}))

	// MaxRetries is 2: the initial delivery plus two redeliveries may fail
	// before the message is dead-lettered.
	for i := 0; i < 3; i++ {
		msg, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NotNil(t, msg, "delivery %d", i)
		require.NoError(t, msg.Nack(errors.New("persistent failure")))
	}

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, msg)

	objects, err := afs.New().List(ctx, queue.dlqDir)
	require.NoError(t, err)
	files := 0
	for _, object := range objects {
		if !object.IsDir() {
			files++
		}
	}
	assert.Equal(t, 1, files)
}

func TestDoubleAckRejected(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	require.NoError(t, queue.Publish(ctx, &payload{ActionID: "a-1"}))

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())
	assert.Error(t, msg.Nack(errors.New("late failure")))
}
