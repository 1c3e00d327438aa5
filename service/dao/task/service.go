package task

import (
	"context"

	"github.com/viant/actiongate/model/task"
)

// Store persists tracked tasks. The planner's dedup guard relies on
// FindOpenByKey: while it returns a task for a dedup key no new task is
// materialized for that condition.
type Store interface {
	Save(ctx context.Context, t *task.Tracked) error

	Load(ctx context.Context, tenantID, id string) (*task.Tracked, error)

	List(ctx context.Context, tenantID string) ([]*task.Tracked, error)

	// FindOpenByKey returns the tenant's tracked task with the given dedup
	// key whose status is still open, or nil when the condition is not
	// currently tracked.
	FindOpenByKey(ctx context.Context, tenantID string, key task.DedupKey) (*task.Tracked, error)

	// UpdateStatus moves the task to the given status.
	UpdateStatus(ctx context.Context, tenantID, id string, status task.Status) (*task.Tracked, error)
}
