package actiongate

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/action"
	adao "github.com/viant/actiongate/service/dao/action"
	tdao "github.com/viant/actiongate/service/dao/task"
	"github.com/viant/actiongate/service/handler"
	"github.com/viant/actiongate/service/messaging"
	"github.com/viant/actiongate/service/planner"
)

// Option customises the engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) { e.config = config }
}

// WithActionStore sets the action record store; defaults to in-memory.
func WithActionStore(store adao.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithTaskStore sets the tracked-task store; defaults to in-memory.
func WithTaskStore(store tdao.Store) Option {
	return func(e *Engine) { e.tasks = store }
}

// WithQueue sets the dispatch queue; defaults to the in-memory queue with
// the configured retry policy.
func WithQueue(queue messaging.Queue[action.DispatchJob]) Option {
	return func(e *Engine) { e.queue = queue }
}

// WithHandlers registers action handlers.
func WithHandlers(handlers ...handler.Service) Option {
	return func(e *Engine) { e.handlers = append(e.handlers, handlers...) }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches pre-built engine metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPrometheus builds engine metrics on the given registerer.
func WithPrometheus(registerer prometheus.Registerer) Option {
	return func(e *Engine) { e.registerer = registerer }
}

// WithMetricsSource enables the task planner, fed by the given source.
func WithMetricsSource(source planner.MetricsSource) Option {
	return func(e *Engine) { e.metricsSource = source }
}

// WithOwnerResolver sets the planner's fallback owner resolver.
func WithOwnerResolver(resolver planner.OwnerResolver) Option {
	return func(e *Engine) { e.ownerResolver = resolver }
}
