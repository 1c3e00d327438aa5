package dao

import (
	"context"
)

// Service is the generic persistence contract shared by the engine's
// stores. Tenant scoping is layered on top by the domain-specific store
// interfaces; this contract only covers key-addressed access.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
