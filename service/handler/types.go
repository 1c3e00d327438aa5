package handler

import (
	"context"
	"reflect"

	"github.com/viant/actiongate/model/action"
)

// Signature describes a handler: which action type it fulfills and the
// typed view of the opaque params map it expects. Input must be a pointer
// to struct; the registry coerces params into a fresh instance before every
// invocation.
type Signature struct {
	Kind        action.Type
	Description string
	Input       reflect.Type
}

// Service is a single side-effecting operation fulfilling one action type.
// Execute receives the tenant the action belongs to and the coerced input;
// a returned error becomes the action's terminal FAILED outcome verbatim.
// Handlers never retry internally, retrying is a dispatch-queue concern.
type Service interface {
	Kind() action.Type
	Signature() Signature
	Execute(ctx context.Context, tenantID string, input interface{}) (interface{}, error)
}
