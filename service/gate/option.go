package gate

import (
	"go.uber.org/zap"

	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/action"
	adao "github.com/viant/actiongate/service/dao/action"
	"github.com/viant/actiongate/service/messaging"
)

// Option customises the gate service.
type Option func(*Service)

// WithStore sets the action store.
func WithStore(store adao.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithQueue sets the dispatch queue.
func WithQueue(queue messaging.Queue[action.DispatchJob]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithLogger sets the logger; the default discards everything.
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
