package action

import (
	"context"
	"time"

	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/dao"
)

// Filter parameter names accepted by Store.List.
const (
	ParamStatus = "status"
	ParamType   = "actionType"
)

// Store is the durable home of action records and the engine's single
// source of truth for their status. All reads and writes except LoadAny are
// tenant-scoped; status changes go through UpdateStatusIf so that the
// approval gate's precondition guards are enforced atomically at the
// storage layer.
type Store interface {
	// Save persists a new or updated record.
	Save(ctx context.Context, a *action.Action) error

	// Load returns the record with the given id within the tenant, or
	// dao.ErrNotFound.
	Load(ctx context.Context, tenantID, id string) (*action.Action, error)

	// LoadAny returns the record by id regardless of tenant. It exists for
	// the dispatch worker, whose queue jobs carry no caller identity; the
	// worker re-derives the tenant scope from the returned record.
	LoadAny(ctx context.Context, id string) (*action.Action, error)

	// List returns the tenant's records, optionally filtered by status
	// and/or action type parameters.
	List(ctx context.Context, tenantID string, parameters ...*dao.Parameter) ([]*action.Action, error)

	// CountByStatus returns the number of the tenant's records in the given
	// status.
	CountByStatus(ctx context.Context, tenantID string, status action.Status) (int, error)

	// UpdateStatusIf transitions the record from expected to the status set
	// by mutate, atomically with respect to concurrent callers. mutate runs
	// only when the current status equals expected; otherwise
	// dao.ErrConflict is returned and the record is untouched. The updated
	// record is returned on success.
	UpdateStatusIf(ctx context.Context, tenantID, id string, expected action.Status, mutate func(*action.Action)) (*action.Action, error)

	// ExpirePending cancels every PENDING record whose ExpiresAt precedes
	// now, across all tenants, and returns how many records it flipped.
	// Records with no deadline are never touched; running the sweep twice
	// over the same window is a no-op the second time.
	ExpirePending(ctx context.Context, now time.Time) (int, error)
}
