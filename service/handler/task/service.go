// Package task implements the CREATE_TASK action: materializing a tracked
// operational task, honouring the same dedup guard the planner uses.
package task

import (
	"context"
	"reflect"
	"time"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/internal/idgen"
	"github.com/viant/actiongate/model/action"
	tmodel "github.com/viant/actiongate/model/task"
	tdao "github.com/viant/actiongate/service/dao/task"
	"github.com/viant/actiongate/service/handler"
)

// Input is the typed view of the action params.
type Input struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	OwnerUserID    string                 `json:"ownerUserId,omitempty"`
	OwnerAgentKind string                 `json:"ownerAgentKind,omitempty"`
	Priority       string                 `json:"priority,omitempty"`
	SourceType     string                 `json:"sourceType,omitempty"`
	SourceID       string                 `json:"sourceId,omitempty"`
	DueInHours     int                    `json:"dueInHours,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Output is the success payload recorded on the action. Deduped is true
// when an open task already tracked the same condition and no new task was
// created.
type Output struct {
	TaskID  string `json:"taskId"`
	Deduped bool   `json:"deduped,omitempty"`
}

// Service handles CREATE_TASK actions.
type Service struct {
	tasks tdao.Store
}

// New creates a task handler.
func New(tasks tdao.Store) *Service {
	return &Service{tasks: tasks}
}

func (s *Service) Kind() action.Type {
	return action.TypeCreateTask
}

func (s *Service) Signature() handler.Signature {
	return handler.Signature{
		Kind:        action.TypeCreateTask,
		Description: "Creates a tracked operational task unless one is already open for the same condition.",
		Input:       reflect.TypeOf(&Input{}),
	}
}

func (s *Service) Execute(ctx context.Context, tenantID string, in interface{}) (interface{}, error) {
	input, ok := in.(*Input)
	if !ok {
		return nil, handler.NewBadRequest("unexpected input type %T", in)
	}
	if input.Title == "" {
		return nil, handler.NewBadRequest("title is required")
	}
	if input.OwnerUserID != "" && input.OwnerAgentKind != "" {
		return nil, handler.NewBadRequest("ownerUserId and ownerAgentKind are mutually exclusive")
	}

	key := tmodel.DedupKey{SourceType: tmodel.SourceType(input.SourceType), SourceID: input.SourceID}
	if key.SourceType == "" {
		key.SourceType = tmodel.SourceManual
	}
	if key.SourceID != "" {
		existing, err := s.tasks.FindOpenByKey(ctx, tenantID, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &Output{TaskID: existing.ID, Deduped: true}, nil
		}
	}

	priority := tmodel.Priority(input.Priority)
	if priority == "" {
		priority = tmodel.PriorityMedium
	}
	var dueAt *time.Time
	if input.DueInHours > 0 {
		due := clock.Now().Add(time.Duration(input.DueInHours) * time.Hour)
		dueAt = &due
	}
	tracked := &tmodel.Tracked{
		ID:             idgen.New(),
		TenantID:       tenantID,
		Title:          input.Title,
		Description:    input.Description,
		OwnerUserID:    input.OwnerUserID,
		OwnerAgentKind: input.OwnerAgentKind,
		Priority:       priority,
		Status:         tmodel.StatusPending,
		DueAt:          dueAt,
		Key:            key,
		Metadata:       input.Metadata,
		CreatedAt:      clock.Now(),
	}
	if err := s.tasks.Save(ctx, tracked); err != nil {
		return nil, err
	}
	return &Output{TaskID: tracked.ID}, nil
}

var _ handler.Service = (*Service)(nil)
