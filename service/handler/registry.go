package handler

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/structology/conv"
	"github.com/viant/x"

	"github.com/viant/actiongate/model/action"
)

// Registry maps action types to handler services. Registration is static;
// Validate checks completeness against the enumerated type set so that a
// missing handler surfaces as a configuration error at startup rather than
// a runtime surprise.
type Registry struct {
	mux       sync.RWMutex
	handlers  map[action.Type]Service
	types     *x.Registry
	converter *conv.Converter
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	return &Registry{
		handlers:  make(map[action.Type]Service),
		types:     x.NewRegistry(),
		converter: conv.NewConverter(options),
	}
}

// Register adds a handler and records its input type so callers can
// introspect the expected params shape.
func (r *Registry) Register(service Service) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.handlers[service.Kind()] = service
	if input := service.Signature().Input; input != nil {
		rType := input
		if rType.Kind() == reflect.Ptr {
			rType = rType.Elem()
		}
		r.types.Register(x.NewType(rType))
	}
}

// Lookup returns the handler for the given action type, or nil.
func (r *Registry) Lookup(kind action.Type) Service {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.handlers[kind]
}

// Validate verifies that every enumerated action type has a handler.
func (r *Registry) Validate() error {
	r.mux.RLock()
	defer r.mux.RUnlock()
	for _, kind := range action.Types() {
		if _, ok := r.handlers[kind]; !ok {
			return fmt.Errorf("%w: %v", ErrNotRegistered, kind)
		}
	}
	return nil
}

// Execute resolves the handler for kind, coerces params into the handler's
// typed input and invokes it. Coercion failures surface as BadRequestError.
func (r *Registry) Execute(ctx context.Context, tenantID string, kind action.Type, params map[string]interface{}) (interface{}, error) {
	service := r.Lookup(kind)
	if service == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRegistered, kind)
	}
	input, err := r.typedInput(service.Signature(), params)
	if err != nil {
		return nil, err
	}
	return service.Execute(ctx, tenantID, input)
}

func (r *Registry) typedInput(signature Signature, params map[string]interface{}) (interface{}, error) {
	if signature.Input == nil {
		return params, nil
	}
	rType := signature.Input
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	instance := reflect.New(rType).Interface()
	if params == nil {
		return instance, nil
	}
	if err := r.converter.Convert(params, instance); err != nil {
		return nil, NewBadRequest("invalid params for %v: %v", signature.Kind, err)
	}
	return instance, nil
}
