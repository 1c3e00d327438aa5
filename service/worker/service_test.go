package worker

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viant/actiongate/model/action"
	adao "github.com/viant/actiongate/service/dao/action"
	actionmem "github.com/viant/actiongate/service/dao/action/memory"
	"github.com/viant/actiongate/service/handler"
	queuemem "github.com/viant/actiongate/service/messaging/memory"
)

type fakeMessage struct {
	job     action.DispatchJob
	acked   bool
	nacked  bool
	nackErr error
}

func (m *fakeMessage) T() *action.DispatchJob { return &m.job }
func (m *fakeMessage) Ack() error             { m.acked = true; return nil }
func (m *fakeMessage) Nack(err error) error   { m.nacked = true; m.nackErr = err; return nil }

type stubInput struct {
	Note string `json:"note"`
}

type stubHandler struct {
	kind    action.Type
	invoked int
	result  interface{}
	err     error
	panics  bool
}

func (h *stubHandler) Kind() action.Type { return h.kind }

func (h *stubHandler) Signature() handler.Signature {
	return handler.Signature{Kind: h.kind, Input: reflect.TypeOf(&stubInput{})}
}

func (h *stubHandler) Execute(ctx context.Context, tenantID string, input interface{}) (interface{}, error) {
	h.invoked++
	if h.panics {
		panic("boom")
	}
	return h.result, h.err
}

type fixture struct {
	service *Service
	store   adao.Store
	handler *stubHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := actionmem.New()
	h := &stubHandler{kind: action.TypeSendMessage, result: map[string]interface{}{"messageId": "m-1"}}
	registry := handler.NewRegistry()
	registry.Register(h)
	service := &Service{
		config:   DefaultConfig(),
		store:    store,
		registry: registry,
		logger:   zap.NewNop(),
	}
	return &fixture{service: service, store: store, handler: h}
}

func seedAction(t *testing.T, f *fixture, status action.Status) *action.Action {
	t.Helper()
	a := &action.Action{
		ID:       "a-1",
		TenantID: "t1",
		Type:     action.TypeSendMessage,
		Title:    "Send reminder",
		Status:   status,
		Params:   map[string]interface{}{"note": "hi"},
	}
	require.NoError(t, f.store.Save(context.Background(), a))
	return a
}

func TestProcessMessageCompletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedAction(t, f, action.StatusApproved)

	msg := &fakeMessage{job: action.DispatchJob{ActionID: "a-1"}}
	require.NoError(t, f.service.processMessage(ctx, msg))

	assert.True(t, msg.acked)
	assert.Equal(t, 1, f.handler.invoked)
	current, err := f.store.Load(ctx, "t1", "a-1")
	require.NoError(t, err)
	assert.Equal(t, action.StatusCompleted, current.Status)
	assert.NotNil(t, current.Result)
	assert.NotNil(t, current.ExecutedAt)
	assert.WithinDuration(t, time.Now(), *current.ExecutedAt, time.Minute)
}

func TestProcessMessageHandlerFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.handler.err = errors.New("downstream rejected the message")
	seedAction(t, f, action.StatusApproved)

	msg := &fakeMessage{job: action.DispatchJob{ActionID: "a-1"}}
	require.NoError(t, f.service.processMessage(ctx, msg))

	// A handler failure is terminal; it must not be redelivered.
	assert.True(t, msg.acked)
	assert.False(t, msg.nacked)
	current, err := f.store.Load(ctx, "t1", "a-1")
	require.NoError(t, err)
	assert.Equal(t, action.StatusFailed, current.Status)
	assert.Equal(t, "downstream rejected the message", current.ErrorMessage)
	assert.NotNil(t, current.ExecutedAt)
}

func TestProcessMessageHandlerPanic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.handler.panics = true
	seedAction(t, f, action.StatusApproved)

	msg := &fakeMessage{job: action.DispatchJob{ActionID: "a-1"}}
	require.NoError(t, f.service.processMessage(ctx, msg))

	assert.True(t, msg.acked)
	current, err := f.store.Load(ctx, "t1", "a-1")
	require.NoError(t, err)
	assert.Equal(t, action.StatusFailed, current.Status)
	assert.Contains(t, current.ErrorMessage, "handler panic")
}

func TestProcessMessageSkipsNonApproved(t *testing.T) {
	ctx := context.Background()
	for _, status := range []action.Status{
		action.StatusPending,
		action.StatusCancelled,
		action.StatusCompleted,
		action.StatusFailed,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			seedAction(t, f, status)

			msg := &fakeMessage{job: action.DispatchJob{ActionID: "a-1"}}
			require.NoError(t, f.service.processMessage(ctx, msg))

			// Duplicate or stale delivery: acknowledged without touching
			// the handler or the record.
			assert.True(t, msg.acked)
			assert.Equal(t, 0, f.handler.invoked)
			current, err := f.store.Load(ctx, "t1", "a-1")
			require.NoError(t, err)
			assert.Equal(t, status, current.Status)
		})
	}
}

func TestProcessMessageUnknownAction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	msg := &fakeMessage{job: action.DispatchJob{ActionID: "missing"}}
	require.NoError(t, f.service.processMessage(ctx, msg))
	assert.True(t, msg.acked)
	assert.Equal(t, 0, f.handler.invoked)
}

func TestStartDrainsQueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedAction(t, f, action.StatusApproved)

	queue := queuemem.NewQueue[action.DispatchJob](queuemem.DefaultConfig())
	f.service.queue = queue
	require.NoError(t, queue.Publish(ctx, &action.DispatchJob{ActionID: "a-1"}))

	require.NoError(t, f.service.Start(ctx))
	defer f.service.Shutdown()

	assert.Eventually(t, func() bool {
		current, err := f.store.Load(ctx, "t1", "a-1")
		return err == nil && current.Status == action.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}
