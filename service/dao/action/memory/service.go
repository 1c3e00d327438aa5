package memory

import (
	"context"
	"time"

	"github.com/viant/actiongate/internal/clock"
	amodel "github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/dao"
	adao "github.com/viant/actiongate/service/dao/action"
	"github.com/viant/actiongate/service/dao/store"
)

type service struct {
	store *store.MemoryStore[string, amodel.Action]
}

// New creates an in-memory action store.
func New() adao.Store {
	return &service{
		store: store.NewMemoryStore[string, amodel.Action](func(a *amodel.Action) string { return a.ID }),
	}
}

func (s *service) Save(ctx context.Context, a *amodel.Action) error {
	if a == nil {
		return dao.ErrNilEntity
	}
	if a.ID == "" {
		return dao.ErrInvalidID
	}
	a.UpdatedAt = clock.Now()
	return s.store.Save(ctx, a)
}

func (s *service) Load(ctx context.Context, tenantID, id string) (*amodel.Action, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	a, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.TenantID != tenantID {
		// A foreign tenant's record is indistinguishable from a missing one.
		return nil, dao.ErrNotFound
	}
	return a, nil
}

func (s *service) LoadAny(ctx context.Context, id string) (*amodel.Action, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.store.Load(ctx, id)
}

func (s *service) List(ctx context.Context, tenantID string, parameters ...*dao.Parameter) ([]*amodel.Action, error) {
	var statusFilter, typeFilter string
	for _, p := range parameters {
		if p == nil {
			continue
		}
		value, _ := p.Value.(string)
		switch p.Name {
		case adao.ParamStatus:
			statusFilter = value
		case adao.ParamType:
			typeFilter = value
		}
	}
	var out []*amodel.Action
	err := s.store.Range(ctx, func(a *amodel.Action) bool {
		if a.TenantID != tenantID {
			return true
		}
		if statusFilter != "" && string(a.Status) != statusFilter {
			return true
		}
		if typeFilter != "" && string(a.Type) != typeFilter {
			return true
		}
		copied := *a
		out = append(out, &copied)
		return true
	})
	return out, err
}

func (s *service) CountByStatus(ctx context.Context, tenantID string, status amodel.Status) (int, error) {
	count := 0
	err := s.store.Range(ctx, func(a *amodel.Action) bool {
		if a.TenantID == tenantID && a.Status == status {
			count++
		}
		return true
	})
	return count, err
}

func (s *service) UpdateStatusIf(ctx context.Context, tenantID, id string, expected amodel.Status, mutate func(*amodel.Action)) (*amodel.Action, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	var updated *amodel.Action
	err := s.store.Update(ctx, id, func(a *amodel.Action) error {
		if a.TenantID != tenantID {
			return dao.ErrNotFound
		}
		if a.Status != expected {
			return dao.ErrConflict
		}
		mutate(a)
		a.UpdatedAt = clock.Now()
		copied := *a
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	var expired []string
	_ = s.store.Range(ctx, func(a *amodel.Action) bool {
		if a.Expired(now) {
			expired = append(expired, a.ID)
		}
		return true
	})
	count := 0
	for _, id := range expired {
		// Re-checked under the write lock: a concurrent approve or cancel
		// between the scan and this update simply skips the record.
		err := s.store.Update(ctx, id, func(a *amodel.Action) error {
			if !a.Expired(now) {
				return dao.ErrConflict
			}
			a.Status = amodel.StatusCancelled
			a.UpdatedAt = clock.Now()
			return nil
		})
		if err != nil {
			continue
		}
		count++
	}
	return count, nil
}

var _ adao.Store = (*service)(nil)
