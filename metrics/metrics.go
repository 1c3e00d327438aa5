// Package metrics exposes the engine's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine counters. A nil *Metrics disables recording so
// callers never need to guard individual observations.
type Metrics struct {
	actionsCreated  *prometheus.CounterVec
	actionsExecuted prometheus.Counter
	actionsFailed   prometheus.Counter
	actionsExpired  prometheus.Counter
	tasksCreated    prometheus.Counter
	tasksSkipped    prometheus.Counter
}

// New creates the engine metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actiongate",
			Name:      "actions_created_total",
			Help:      "Actions proposed, by action type.",
		}, []string{"action_type"}),
		actionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actiongate",
			Name:      "actions_executed_total",
			Help:      "Actions that reached COMPLETED.",
		}),
		actionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actiongate",
			Name:      "actions_failed_total",
			Help:      "Actions that reached FAILED.",
		}),
		actionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actiongate",
			Name:      "actions_expired_total",
			Help:      "Pending actions cancelled by the expiration sweep.",
		}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actiongate",
			Name:      "tasks_created_total",
			Help:      "Tracked tasks materialized by the planner.",
		}),
		tasksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actiongate",
			Name:      "tasks_skipped_total",
			Help:      "Planner candidates suppressed by the dedup guard.",
		}),
	}
	reg.MustRegister(m.actionsCreated, m.actionsExecuted, m.actionsFailed, m.actionsExpired, m.tasksCreated, m.tasksSkipped)
	return m
}

// ActionCreated records a proposal of the given type.
func (m *Metrics) ActionCreated(actionType string) {
	if m == nil {
		return
	}
	m.actionsCreated.WithLabelValues(actionType).Inc()
}

// ActionExecuted records a completed execution.
func (m *Metrics) ActionExecuted() {
	if m == nil {
		return
	}
	m.actionsExecuted.Inc()
}

// ActionFailed records a failed execution.
func (m *Metrics) ActionFailed() {
	if m == nil {
		return
	}
	m.actionsFailed.Inc()
}

// ActionsExpired records n sweep cancellations.
func (m *Metrics) ActionsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.actionsExpired.Add(float64(n))
}

// TaskCreated records a planner-created task.
func (m *Metrics) TaskCreated() {
	if m == nil {
		return
	}
	m.tasksCreated.Inc()
}

// TaskSkipped records a deduplicated candidate.
func (m *Metrics) TaskSkipped() {
	if m == nil {
		return
	}
	m.tasksSkipped.Inc()
}
