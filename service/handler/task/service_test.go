package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tmodel "github.com/viant/actiongate/model/task"
	taskmem "github.com/viant/actiongate/service/dao/task/memory"
	"github.com/viant/actiongate/service/handler"
)

func TestExecuteCreatesTrackedTask(t *testing.T) {
	ctx := context.Background()
	store := taskmem.New()
	service := New(store)

	out, err := service.Execute(ctx, "t1", &Input{
		Title:      "Chase unpaid invoices",
		Priority:   "HIGH",
		SourceType: "EVENT",
		SourceID:   "overdue_invoices",
		DueInHours: 24,
	})
	require.NoError(t, err)
	output := out.(*Output)
	assert.False(t, output.Deduped)

	tracked, err := store.Load(ctx, "t1", output.TaskID)
	require.NoError(t, err)
	assert.Equal(t, tmodel.PriorityHigh, tracked.Priority)
	assert.Equal(t, tmodel.StatusPending, tracked.Status)
	require.NotNil(t, tracked.DueAt)
}

func TestExecuteDedupes(t *testing.T) {
	ctx := context.Background()
	store := taskmem.New()
	service := New(store)

	input := &Input{Title: "Chase unpaid invoices", SourceType: "EVENT", SourceID: "overdue_invoices"}
	first, err := service.Execute(ctx, "t1", input)
	require.NoError(t, err)

	second, err := service.Execute(ctx, "t1", input)
	require.NoError(t, err)
	output := second.(*Output)
	assert.True(t, output.Deduped)
	assert.Equal(t, first.(*Output).TaskID, output.TaskID)

	// A different tenant is never deduped against.
	other, err := service.Execute(ctx, "t2", input)
	require.NoError(t, err)
	assert.False(t, other.(*Output).Deduped)
}

func TestExecuteValidation(t *testing.T) {
	service := New(taskmem.New())

	_, err := service.Execute(context.Background(), "t1", &Input{})
	require.Error(t, err)
	assert.True(t, handler.IsBadRequest(err))

	_, err = service.Execute(context.Background(), "t1", &Input{
		Title:          "x",
		OwnerUserID:    "u1",
		OwnerAgentKind: "collections",
	})
	require.Error(t, err)
	assert.True(t, handler.IsBadRequest(err))
}
