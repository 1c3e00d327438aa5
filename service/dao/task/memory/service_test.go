package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tmodel "github.com/viant/actiongate/model/task"
)

func TestFindOpenByKey(t *testing.T) {
	ctx := context.Background()
	store := New()
	key := tmodel.DedupKey{SourceType: tmodel.SourceEvent, SourceID: "overdue_invoices"}

	require.NoError(t, store.Save(ctx, &tmodel.Tracked{
		ID:       "task-1",
		TenantID: "t1",
		Title:    "Resolve overdue invoices",
		Status:   tmodel.StatusPending,
		Key:      key,
	}))

	found, err := store.FindOpenByKey(ctx, "t1", key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "task-1", found.ID)

	// Another tenant's task never matches.
	found, err = store.FindOpenByKey(ctx, "t2", key)
	require.NoError(t, err)
	assert.Nil(t, found)

	// A closed task releases the key.
	_, err = store.UpdateStatus(ctx, "t1", "task-1", tmodel.StatusCompleted)
	require.NoError(t, err)
	found, err = store.FindOpenByKey(ctx, "t1", key)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListByTenant(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.Save(ctx, &tmodel.Tracked{ID: "task-1", TenantID: "t1", Title: "a", Status: tmodel.StatusPending}))
	require.NoError(t, store.Save(ctx, &tmodel.Tracked{ID: "task-2", TenantID: "t1", Title: "b", Status: tmodel.StatusBlocked}))
	require.NoError(t, store.Save(ctx, &tmodel.Tracked{ID: "task-3", TenantID: "t2", Title: "c", Status: tmodel.StatusPending}))

	tasks, err := store.List(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
