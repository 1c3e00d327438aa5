package sweeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/actiongate/model/action"
	adao "github.com/viant/actiongate/service/dao/action"
	actionmem "github.com/viant/actiongate/service/dao/action/memory"
	"github.com/viant/actiongate/service/sweeper"
)

func seed(t *testing.T, store adao.Store, id string, status action.Status, expiresAt *time.Time) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &action.Action{
		ID:        id,
		TenantID:  "t1",
		Type:      action.TypeSendMessage,
		Title:     "Send reminder",
		Status:    status,
		ExpiresAt: expiresAt,
	}))
}

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	store := actionmem.New()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	seed(t, store, "expired-1", action.StatusPending, &past)
	seed(t, store, "expired-2", action.StatusPending, &past)
	seed(t, store, "fresh", action.StatusPending, &future)
	seed(t, store, "no-deadline", action.StatusPending, nil)
	// Expiry only ever applies to PENDING; a stale deadline on an approved
	// record is inert.
	seed(t, store, "approved", action.StatusApproved, &past)

	service := sweeper.New(store)
	count, err := service.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for id, expected := range map[string]action.Status{
		"expired-1":   action.StatusCancelled,
		"expired-2":   action.StatusCancelled,
		"fresh":       action.StatusPending,
		"no-deadline": action.StatusPending,
		"approved":    action.StatusApproved,
	} {
		a, err := store.Load(ctx, "t1", id)
		require.NoError(t, err)
		assert.Equal(t, expected, a.Status, id)
	}

	// A second pass finds nothing left to expire.
	count, err = service.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStartSweepsPeriodically(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := actionmem.New()
	past := time.Now().Add(-time.Minute)
	seed(t, store, "expired", action.StatusPending, &past)

	service := sweeper.New(store, sweeper.WithInterval(10*time.Millisecond))
	stop := service.Start(ctx)
	defer stop()

	assert.Eventually(t, func() bool {
		a, err := store.Load(ctx, "t1", "expired")
		return err == nil && a.Status == action.StatusCancelled
	}, 2*time.Second, 10*time.Millisecond)
}
