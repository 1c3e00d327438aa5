package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/internal/idgen"
	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/dao"
	adao "github.com/viant/actiongate/service/dao/action"
	"github.com/viant/actiongate/service/messaging"
	"github.com/viant/actiongate/tracing"
)

// CreateInput describes a proposed action. RequiresApproval fixes the
// initial status: true parks the action PENDING for a human decision, false
// auto-approves and enqueues it for execution in the same call.
type CreateInput struct {
	TenantID         string
	Type             action.Type
	Title            string
	Description      string
	RiskLevel        action.RiskLevel
	Params           map[string]interface{}
	InsightID        string
	CopilotSessionID string
	RequiresApproval bool
	ExpiresAt        *time.Time
}

// Service is the approval gate.
type Service struct {
	store   adao.Store
	queue   messaging.Queue[action.DispatchJob]
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates the approval gate service.
func New(options ...Option) (*Service, error) {
	s := &Service{logger: zap.NewNop()}
	for _, option := range options {
		option(s)
	}
	if s.store == nil {
		return nil, fmt.Errorf("action store is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("dispatch queue is required")
	}
	return s, nil
}

// Create validates and persists a new action. Auto-approved actions are
// enqueued for execution exactly once before the call returns.
func (s *Service) Create(ctx context.Context, input *CreateInput) (a *action.Action, err error) {
	ctx, span := tracing.StartSpan(ctx, "gate.Create", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.validate(input); err != nil {
		return nil, err
	}
	riskLevel := input.RiskLevel
	if riskLevel == "" {
		riskLevel = action.RiskLow
	}
	a = &action.Action{
		ID:               idgen.New(),
		TenantID:         input.TenantID,
		Type:             input.Type,
		RiskLevel:        riskLevel,
		Title:            input.Title,
		Description:      input.Description,
		Params:           input.Params,
		InsightID:        input.InsightID,
		CopilotSessionID: input.CopilotSessionID,
		Status:           action.InitialStatus(input.RequiresApproval),
		RequiresApproval: input.RequiresApproval,
		ExpiresAt:        input.ExpiresAt,
		CreatedAt:        clock.Now(),
	}
	span.WithAttributes(map[string]string{"action.id": a.ID, "action.type": string(a.Type)})
	if err = s.store.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save action: %w", err)
	}
	s.metrics.ActionCreated(string(a.Type))
	s.logger.Info("action created",
		zap.String("id", a.ID),
		zap.String("tenant", a.TenantID),
		zap.String("type", string(a.Type)),
		zap.String("status", string(a.Status)))

	if a.Status == action.StatusApproved {
		if err = s.enqueue(ctx, a.ID); err != nil {
			// The record stays APPROVED; a manual re-enqueue can recover it.
			return nil, err
		}
	}
	return a, nil
}

// Approve moves a PENDING action to APPROVED on behalf of actor and
// enqueues it for execution. Any other current status yields a
// ConflictError.
func (s *Service) Approve(ctx context.Context, tenantID, id, actor string) (a *action.Action, err error) {
	ctx, span := tracing.StartSpan(ctx, "gate.Approve", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"action.id": id})

	a, err = s.transition(ctx, tenantID, id, "approve", action.StatusPending, func(a *action.Action) {
		a.Status = action.StatusApproved
		a.ExecutedBy = actor
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("action approved", zap.String("id", id), zap.String("actor", actor))
	if err = s.enqueue(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel moves a PENDING action to CANCELLED on behalf of actor. Approved,
// executing and terminal actions cannot be cancelled through this path.
func (s *Service) Cancel(ctx context.Context, tenantID, id, actor string) (a *action.Action, err error) {
	ctx, span := tracing.StartSpan(ctx, "gate.Cancel", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"action.id": id})

	a, err = s.transition(ctx, tenantID, id, "cancel", action.StatusPending, func(a *action.Action) {
		a.Status = action.StatusCancelled
		a.ExecutedBy = actor
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("action cancelled", zap.String("id", id), zap.String("actor", actor))
	return a, nil
}

// Get returns the tenant's action by id.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*action.Action, error) {
	return s.store.Load(ctx, tenantID, id)
}

// List returns the tenant's actions, optionally filtered by status and/or
// type parameters.
func (s *Service) List(ctx context.Context, tenantID string, parameters ...*dao.Parameter) ([]*action.Action, error) {
	return s.store.List(ctx, tenantID, parameters...)
}

// PendingCount returns how many of the tenant's actions await approval.
func (s *Service) PendingCount(ctx context.Context, tenantID string) (int, error) {
	return s.store.CountByStatus(ctx, tenantID, action.StatusPending)
}

// transition runs a guarded status change, converting a store-level
// conflict into a ConflictError carrying the status the record was actually
// in.
func (s *Service) transition(ctx context.Context, tenantID, id, op string, expected action.Status, mutate func(*action.Action)) (*action.Action, error) {
	a, err := s.store.UpdateStatusIf(ctx, tenantID, id, expected, mutate)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, dao.ErrConflict) {
		return nil, err
	}
	conflict := &ConflictError{ID: id, Op: op}
	if current, loadErr := s.store.Load(ctx, tenantID, id); loadErr == nil {
		conflict.Status = current.Status
	}
	return nil, conflict
}

func (s *Service) enqueue(ctx context.Context, actionID string) error {
	if err := s.queue.Publish(ctx, &action.DispatchJob{ActionID: actionID}); err != nil {
		return fmt.Errorf("failed to enqueue action %s: %w", actionID, err)
	}
	return nil
}

func (s *Service) validate(input *CreateInput) error {
	if input == nil {
		return fmt.Errorf("%w: nil input", ErrInvalidInput)
	}
	if input.TenantID == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !input.Type.IsValid() {
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidInput, input.Type)
	}
	return nil
}
