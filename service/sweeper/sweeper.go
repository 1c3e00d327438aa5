// Package sweeper cancels pending actions whose approval window has
// elapsed.
package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/metrics"
	adao "github.com/viant/actiongate/service/dao/action"
)

// Service periodically expires overdue PENDING actions. The sweep is a
// bulk conditional update, so running two sweepers concurrently over the
// same window cancels each record at most once.
type Service struct {
	store    adao.Store
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option customises the sweeper.
type Option func(*Service)

// WithInterval sets the sweep period.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
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

// New creates an expiration sweeper.
func New(store adao.Store, options ...Option) *Service {
	s := &Service{
		store:    store,
		interval: time.Minute,
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SweepOnce performs a single expiry pass and returns how many actions it
// cancelled.
func (s *Service) SweepOnce(ctx context.Context) (int, error) {
	count, err := s.store.ExpirePending(ctx, clock.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.metrics.ActionsExpired(count)
		s.logger.Info("expired pending actions", zap.Int("count", count))
	}
	return count, nil
}

// Start launches a goroutine sweeping every interval. It returns stop();
// call it (or cancel ctx) to exit.
func (s *Service) Start(ctx context.Context) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if _, err := s.SweepOnce(ctx); err != nil {
					s.logger.Error("expiry sweep failed", zap.Error(err))
				}
			}
		}
	}()
	return func() { close(done) }
}
