// Package planner periodically turns aggregate business metrics into
// tracked operational tasks, suppressing candidates whose condition an open
// task already covers.
package planner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/internal/idgen"
	"github.com/viant/actiongate/metrics"
	"github.com/viant/actiongate/model/task"
	tdao "github.com/viant/actiongate/service/dao/task"
)

// MetricsSource supplies a stable read-only snapshot of aggregate counts
// per invocation.
type MetricsSource interface {
	Snapshot(ctx context.Context, tenantID string) (*Snapshot, error)
}

// OwnerResolver resolves the fallback owner for candidates that name
// neither a human nor an agent kind, typically the tenant's primary admin.
type OwnerResolver interface {
	PrimaryAdmin(ctx context.Context, tenantID string) (string, error)
}

// Report summarises one planner run. Skipped holds the source ids of
// candidates suppressed by the dedup guard.
type Report struct {
	Created []*task.Tracked
	Skipped []string
}

// Service is the task candidate planner. Runs for the same tenant are
// expected to be serialized by the caller; the dedup check is best-effort
// under concurrent runs.
type Service struct {
	source  MetricsSource
	tasks   tdao.Store
	owners  OwnerResolver
	rules   []Rule
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option customises the planner.
type Option func(*Service)

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) Option {
	return func(s *Service) { s.rules = rules }
}

// WithOwnerResolver sets the fallback owner resolver.
func WithOwnerResolver(resolver OwnerResolver) Option {
	return func(s *Service) { s.owners = resolver }
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

// New creates a planner service.
func New(source MetricsSource, tasks tdao.Store, options ...Option) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("metrics source is required")
	}
	if tasks == nil {
		return nil, fmt.Errorf("task store is required")
	}
	s := &Service{
		source: source,
		tasks:  tasks,
		rules:  DefaultRules(),
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Run evaluates every rule against a fresh snapshot and materializes the
// candidates whose condition is not already tracked by an open task.
func (s *Service) Run(ctx context.Context, tenantID string) (*Report, error) {
	snapshot, err := s.source.Snapshot(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}
	report := &Report{}
	for _, rule := range s.rules {
		candidate := rule(snapshot)
		if candidate == nil {
			continue
		}
		existing, err := s.tasks.FindOpenByKey(ctx, tenantID, candidate.Key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			report.Skipped = append(report.Skipped, candidate.Key.SourceID)
			s.metrics.TaskSkipped()
			s.logger.Debug("candidate already tracked",
				zap.String("tenant", tenantID), zap.String("sourceId", candidate.Key.SourceID))
			continue
		}
		tracked, err := s.materialize(ctx, tenantID, candidate)
		if err != nil {
			return nil, err
		}
		report.Created = append(report.Created, tracked)
		s.metrics.TaskCreated()
		s.logger.Info("task created from candidate",
			zap.String("tenant", tenantID),
			zap.String("sourceId", candidate.Key.SourceID),
			zap.String("priority", string(candidate.Priority)))
	}
	return report, nil
}

func (s *Service) materialize(ctx context.Context, tenantID string, candidate *task.Candidate) (*task.Tracked, error) {
	if candidate.OwnerUserID != "" && candidate.OwnerAgentKind != "" {
		return nil, fmt.Errorf("candidate %s: ownerUserId and ownerAgentKind are mutually exclusive", candidate.Key.SourceID)
	}
	ownerUserID := candidate.OwnerUserID
	if ownerUserID == "" && candidate.OwnerAgentKind == "" {
		if s.owners == nil {
			return nil, fmt.Errorf("candidate %s has no owner and no resolver is configured", candidate.Key.SourceID)
		}
		admin, err := s.owners.PrimaryAdmin(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve fallback owner: %w", err)
		}
		ownerUserID = admin
	}
	tracked := &task.Tracked{
		ID:             idgen.New(),
		TenantID:       tenantID,
		Title:          candidate.Title,
		Description:    candidate.Description,
		OwnerUserID:    ownerUserID,
		OwnerAgentKind: candidate.OwnerAgentKind,
		Priority:       candidate.Priority,
		Status:         task.StatusPending,
		DueAt:          candidate.DueAt,
		Key:            candidate.Key,
		Metadata:       candidate.Metadata,
		CreatedAt:      clock.Now(),
	}
	if err := s.tasks.Save(ctx, tracked); err != nil {
		return nil, err
	}
	return tracked, nil
}

// Start launches a goroutine running the planner for tenantID every
// interval. It returns stop(); call it (or cancel ctx) to exit.
func (s *Service) Start(ctx context.Context, tenantID string, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = time.Hour
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if _, err := s.Run(ctx, tenantID); err != nil {
					s.logger.Error("planner run failed",
						zap.String("tenant", tenantID), zap.Error(err))
				}
			}
		}
	}()
	return func() { close(done) }
}
