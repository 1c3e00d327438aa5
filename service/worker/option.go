package worker

import (
	"go.uber.org/zap"

	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/action"
	adao "github.com/viant/actiongate/service/dao/action"
	"github.com/viant/actiongate/service/handler"
	"github.com/viant/actiongate/service/messaging"
)

// Option customises the worker service.
type Option func(*Service)

// WithStore sets the action store.
func WithStore(store adao.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithQueue sets the dispatch queue.
func WithQueue(queue messaging.Queue[action.DispatchJob]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithRegistry sets the handler registry.
func WithRegistry(registry *handler.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.config.WorkerCount = count
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches engine metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithConfig sets the configuration for the service.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}
