package store

import (
	"context"
	"sync"

	"github.com/viant/actiongate/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keeping
// entities of type *T mapped by a comparable key K obtained from the
// supplied keySelector.
//
// Concrete DAOs embed the store to avoid rewriting identical
// Save/Load/Delete/List logic per entity type; domain behaviour such as
// tenant filtering or conditional status updates is layered on top, the
// latter through Update which runs its mutation under the store's write
// lock so that check-then-mutate sequences are atomic.
//
// All API methods work with copies to eliminate data races: Save stores a
// copy of the given value and Load/List return copies, so records handed to
// or from the store never alias the live one that Update mutates. Copies
// are shallow; reference-typed fields (maps, result payloads) are treated
// as immutable once saved.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
}

// NewMemoryStore creates a new MemoryStore. keySelector extracts the entity
// key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
}

// Save stores or overwrites a record with a copy of v, so later mutations
// of the caller's value do not reach the store and vice versa.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	stored := *v
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = &stored
	return nil
}

// Load returns a copy of the record by key, or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	out := *v
	return &out, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns copies of all stored records. Filtering by dao.Parameter is
// left to embedding DAOs that know their entity's fields.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		copied := *v
		out = append(out, &copied)
	}
	return out, nil
}

// Update applies fn to the record under the write lock. fn sees the live
// record and may mutate it; returning an error leaves the record as fn left
// it, so fn must not partially mutate on failure. Missing keys yield
// dao.ErrNotFound without invoking fn.
func (s *MemoryStore[K, T]) Update(_ context.Context, key K, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	if !ok {
		return dao.ErrNotFound
	}
	return fn(v)
}

// Range invokes fn for every record under the read lock until fn returns
// false. fn sees the live record; callers that export a record beyond the
// callback must copy it first.
func (s *MemoryStore[K, T]) Range(_ context.Context, fn func(*T) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.records {
		if !fn(v) {
			break
		}
	}
	return nil
}

var _ dao.Service[string, any] = (*MemoryStore[string, any])(nil)
