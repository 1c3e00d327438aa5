package memory

import (
	"context"

	"github.com/viant/actiongate/internal/clock"
	tmodel "github.com/viant/actiongate/model/task"
	"github.com/viant/actiongate/service/dao"
	tdao "github.com/viant/actiongate/service/dao/task"
	"github.com/viant/actiongate/service/dao/store"
)

type service struct {
	store *store.MemoryStore[string, tmodel.Tracked]
}

// New creates an in-memory tracked-task store.
func New() tdao.Store {
	return &service{
		store: store.NewMemoryStore[string, tmodel.Tracked](func(t *tmodel.Tracked) string { return t.ID }),
	}
}

func (s *service) Save(ctx context.Context, t *tmodel.Tracked) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.ID == "" {
		return dao.ErrInvalidID
	}
	t.UpdatedAt = clock.Now()
	return s.store.Save(ctx, t)
}

func (s *service) Load(ctx context.Context, tenantID, id string) (*tmodel.Tracked, error) {
	t, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.TenantID != tenantID {
		return nil, dao.ErrNotFound
	}
	return t, nil
}

func (s *service) List(ctx context.Context, tenantID string) ([]*tmodel.Tracked, error) {
	var out []*tmodel.Tracked
	err := s.store.Range(ctx, func(t *tmodel.Tracked) bool {
		if t.TenantID == tenantID {
			copied := *t
			out = append(out, &copied)
		}
		return true
	})
	return out, err
}

func (s *service) FindOpenByKey(ctx context.Context, tenantID string, key tmodel.DedupKey) (*tmodel.Tracked, error) {
	var found *tmodel.Tracked
	err := s.store.Range(ctx, func(t *tmodel.Tracked) bool {
		if t.TenantID == tenantID && t.Key == key && t.Status.IsOpen() {
			copied := *t
			found = &copied
			return false
		}
		return true
	})
	return found, err
}

func (s *service) UpdateStatus(ctx context.Context, tenantID, id string, status tmodel.Status) (*tmodel.Tracked, error) {
	var updated *tmodel.Tracked
	err := s.store.Update(ctx, id, func(t *tmodel.Tracked) error {
		if t.TenantID != tenantID {
			return dao.ErrNotFound
		}
		t.Status = status
		t.UpdatedAt = clock.Now()
		copied := *t
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

var _ tdao.Store = (*service)(nil)
