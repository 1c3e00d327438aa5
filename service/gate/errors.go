package gate

import (
	"errors"
	"fmt"

	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/dao"
)

// ErrInvalidInput marks a malformed creation request.
var ErrInvalidInput = errors.New("gate: invalid input")

// ConflictError reports a transition attempted from the wrong state, e.g.
// approving an action that is no longer PENDING. It unwraps to
// dao.ErrConflict so an HTTP layer can map it to 409.
type ConflictError struct {
	ID     string
	Op     string
	Status action.Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot %s action %s in status %s", e.Op, e.ID, e.Status)
}

func (e *ConflictError) Unwrap() error {
	return dao.ErrConflict
}

// IsConflict reports whether err represents a state-transition conflict.
func IsConflict(err error) bool {
	return errors.Is(err, dao.ErrConflict)
}
