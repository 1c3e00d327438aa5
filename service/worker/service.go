// Package worker pulls dispatch jobs off the queue and drives approved
// actions through execution. Handler failures are terminal business
// outcomes recorded on the action; only infrastructure failures ahead of
// the handler are surfaced to the queue for redelivery, since retrying a
// handler that already ran could double-fire its side effect.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/dao"
	adao "github.com/viant/actiongate/service/dao/action"
	"github.com/viant/actiongate/service/handler"
	"github.com/viant/actiongate/service/messaging"
	"github.com/viant/actiongate/tracing"
)

// Config represents worker service configuration.
type Config struct {
	// WorkerCount is the number of goroutines consuming dispatch jobs.
	WorkerCount int
}

// DefaultConfig returns the default worker configuration.
func DefaultConfig() Config {
	return Config{WorkerCount: 5}
}

// Service consumes the dispatch queue.
type Service struct {
	config   Config
	store    adao.Store
	queue    messaging.Queue[action.DispatchJob]
	registry *handler.Registry
	logger   *zap.Logger
	metrics  *metrics.Metrics

	workers  []*worker
	workerWg sync.WaitGroup
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a new worker service.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	if s.store == nil {
		return nil, fmt.Errorf("action store is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("dispatch queue is required")
	}
	if s.registry == nil {
		return nil, fmt.Errorf("handler registry is required")
	}
	return s, nil
}

// Start launches the worker goroutines.
func (s *Service) Start(ctx context.Context) error {
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{id: i, service: s, ctx: workerCtx, cancelFn: cancel}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// Shutdown stops all workers and waits for in-flight jobs to drain.
func (s *Service) Shutdown() {
	for _, w := range s.workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			// Polling queue with nothing pending.
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}
		if pErr := w.service.processMessage(w.ctx, msg); pErr != nil {
			w.service.logger.Error("failed to process dispatch job",
				zap.Int("worker", w.id), zap.Error(pErr))
		}
	}
}

// processMessage handles a single dispatch job delivery.
func (s *Service) processMessage(ctx context.Context, message messaging.Message[action.DispatchJob]) error {
	job := message.T()
	ctx, span := tracing.StartSpan(ctx, "worker.Execute", "CONSUMER")
	var spanErr error
	defer func() { tracing.EndSpan(span, spanErr) }()
	span.WithAttributes(map[string]string{"action.id": job.ActionID})

	// The job carries no caller identity, so the record is loaded under
	// system scope; everything after re-enters the tenant scope derived
	// from the record itself.
	a, err := s.store.LoadAny(ctx, job.ActionID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			// Redelivery would not make the record appear.
			s.logger.Warn("dispatch job for unknown action", zap.String("id", job.ActionID))
			return message.Ack()
		}
		spanErr = err
		return message.Nack(err)
	}

	if a.Status != action.StatusApproved {
		// Duplicate delivery after a terminal outcome, or a defensively
		// checked race; nothing to do and nothing to retry.
		s.logger.Info("skipping dispatch job, action not approved",
			zap.String("id", a.ID), zap.String("status", string(a.Status)))
		return message.Ack()
	}

	tenantID := a.TenantID
	if _, err = s.store.UpdateStatusIf(ctx, tenantID, a.ID, action.StatusApproved, func(a *action.Action) {
		a.Status = action.StatusExecuting
	}); err != nil {
		if errors.Is(err, dao.ErrConflict) {
			// Another worker claimed the same delivery.
			return message.Ack()
		}
		spanErr = err
		return message.Nack(err)
	}

	result, execErr := s.invoke(ctx, tenantID, a)
	if execErr != nil {
		if handler.IsBadRequest(execErr) {
			s.logger.Warn("action params rejected",
				zap.String("id", a.ID), zap.String("type", string(a.Type)), zap.Error(execErr))
		} else {
			s.logger.Warn("action handler failed",
				zap.String("id", a.ID), zap.String("type", string(a.Type)), zap.Error(execErr))
		}
		if _, err = s.store.UpdateStatusIf(ctx, tenantID, a.ID, action.StatusExecuting, func(a *action.Action) {
			a.Status = action.StatusFailed
			a.ErrorMessage = execErr.Error()
			now := clock.Now()
			a.ExecutedAt = &now
		}); err != nil {
			spanErr = err
			return message.Nack(err)
		}
		s.metrics.ActionFailed()
		// A handler failure is a terminal business outcome, not a queue
		// failure; redelivering could double-fire the side effect.
		return message.Ack()
	}

	if _, err = s.store.UpdateStatusIf(ctx, tenantID, a.ID, action.StatusExecuting, func(a *action.Action) {
		a.Status = action.StatusCompleted
		a.Result = result
		now := clock.Now()
		a.ExecutedAt = &now
	}); err != nil {
		spanErr = err
		return message.Nack(err)
	}
	s.metrics.ActionExecuted()
	s.logger.Info("action executed", zap.String("id", a.ID), zap.String("type", string(a.Type)))
	return message.Ack()
}

// invoke runs the handler, converting a panic into an error so that nothing
// below the worker boundary can crash the process.
func (s *Service) invoke(ctx context.Context, tenantID string, a *action.Action) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return s.registry.Execute(ctx, tenantID, a.Type, a.Params)
}
