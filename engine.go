package actiongate

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/action"
	adao "github.com/viant/actiongate/service/dao/action"
	actionmem "github.com/viant/actiongate/service/dao/action/memory"
	tdao "github.com/viant/actiongate/service/dao/task"
	taskmem "github.com/viant/actiongate/service/dao/task/memory"
	"github.com/viant/actiongate/service/gate"
	"github.com/viant/actiongate/service/handler"
	taskhandler "github.com/viant/actiongate/service/handler/task"
	"github.com/viant/actiongate/service/messaging"
	queuemem "github.com/viant/actiongate/service/messaging/memory"
	"github.com/viant/actiongate/service/planner"
	"github.com/viant/actiongate/service/sweeper"
	"github.com/viant/actiongate/service/worker"
)

// Engine wires the approval gate, dispatch queue, worker pool, expiration
// sweeper and task planner behind a single constructor. The queue and
// stores are explicit injected dependencies; there is no module-level
// mutable state.
type Engine struct {
	config   *Config
	store    adao.Store
	tasks    tdao.Store
	queue    messaging.Queue[action.DispatchJob]
	registry *handler.Registry
	logger   *zap.Logger
	metrics  *metrics.Metrics

	gate    *gate.Service
	worker  *worker.Service
	sweeper *sweeper.Service
	planner *planner.Service

	handlers      []handler.Service
	metricsSource planner.MetricsSource
	ownerResolver planner.OwnerResolver
	registerer    prometheus.Registerer

	sweepStop func()
}

// New creates a fully wired engine. Handler registration is validated for
// completeness here, so a missing handler for a known action type fails
// construction rather than a dispatch later on.
func New(options ...Option) (*Engine, error) {
	e := &Engine{logger: zap.NewNop()}
	for _, option := range options {
		option(e)
	}
	if err := e.ensureBaseSetup(); err != nil {
		return nil, err
	}

	for _, h := range e.handlers {
		e.registry.Register(h)
	}
	// The task handler's only collaborator is the engine's own task store,
	// so it is registered implicitly unless the caller supplied their own.
	if e.registry.Lookup(action.TypeCreateTask) == nil {
		e.registry.Register(taskhandler.New(e.tasks))
	}
	if err := e.registry.Validate(); err != nil {
		return nil, fmt.Errorf("handler registry incomplete: %w", err)
	}

	var err error
	if e.gate, err = gate.New(
		gate.WithStore(e.store),
		gate.WithQueue(e.queue),
		gate.WithLogger(e.logger),
		gate.WithMetrics(e.metrics)); err != nil {
		return nil, err
	}
	if e.worker, err = worker.New(
		worker.WithStore(e.store),
		worker.WithQueue(e.queue),
		worker.WithRegistry(e.registry),
		worker.WithWorkers(e.config.Worker.Workers),
		worker.WithLogger(e.logger),
		worker.WithMetrics(e.metrics)); err != nil {
		return nil, err
	}
	e.sweeper = sweeper.New(e.store,
		sweeper.WithInterval(e.config.Sweeper.Interval()),
		sweeper.WithLogger(e.logger),
		sweeper.WithMetrics(e.metrics))

	if e.metricsSource != nil {
		plannerOptions := []planner.Option{
			planner.WithLogger(e.logger),
			planner.WithMetrics(e.metrics),
		}
		if e.ownerResolver != nil {
			plannerOptions = append(plannerOptions, planner.WithOwnerResolver(e.ownerResolver))
		}
		if e.planner, err = planner.New(e.metricsSource, e.tasks, plannerOptions...); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) ensureBaseSetup() error {
	if e.config == nil {
		e.config = DefaultConfig()
	}
	if err := e.config.Validate(); err != nil {
		return err
	}
	if e.store == nil {
		e.store = actionmem.New()
	}
	if e.tasks == nil {
		e.tasks = taskmem.New()
	}
	if e.queue == nil {
		queueConfig := queuemem.DefaultConfig()
		queueConfig.MaxRetries = e.config.Dispatch.MaxRetries
		queueConfig.RetryDelay = e.config.Dispatch.RetryDelay()
		e.queue = queuemem.NewQueue[action.DispatchJob](queueConfig)
	}
	if e.registry == nil {
		e.registry = handler.NewRegistry()
	}
	if e.metrics == nil && e.registerer != nil {
		e.metrics = metrics.New(e.registerer)
	}
	return nil
}

// Start launches the worker pool and the expiration sweeper.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.worker.Start(ctx); err != nil {
		return err
	}
	e.sweepStop = e.sweeper.Start(ctx)
	return nil
}

// Shutdown stops the sweeper and drains the worker pool.
func (e *Engine) Shutdown() {
	if e.sweepStop != nil {
		e.sweepStop()
	}
	e.worker.Shutdown()
}

// Gate returns the approval gate service.
func (e *Engine) Gate() *gate.Service { return e.gate }

// Planner returns the task planner, or nil when no metrics source was
// configured.
func (e *Engine) Planner() *planner.Service { return e.planner }

// Sweeper returns the expiration sweeper.
func (e *Engine) Sweeper() *sweeper.Service { return e.sweeper }

// Registry returns the handler registry.
func (e *Engine) Registry() *handler.Registry { return e.registry }

// ActionStore returns the action record store.
func (e *Engine) ActionStore() adao.Store { return e.store }

// TaskStore returns the tracked-task store.
func (e *Engine) TaskStore() tdao.Store { return e.tasks }
