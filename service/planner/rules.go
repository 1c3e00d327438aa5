package planner

import (
	"fmt"
	"time"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/model/task"
)

// Snapshot carries the aggregate business counts a planner run works from.
// The metrics source must return a stable snapshot per invocation.
type Snapshot struct {
	OverdueInvoices         int
	UnconfirmedAppointments int
	PendingActions          int
	StaleQuotes             int
}

// Rule inspects a snapshot and proposes at most one task candidate. Rules
// are side-effect free; returning nil means the rule's threshold is not
// met. Each rule owns its candidate's dedup key, which must stay stable
// for the condition it tracks across runs.
type Rule func(s *Snapshot) *task.Candidate

// DefaultRules returns the built-in rule set, one per metric.
func DefaultRules() []Rule {
	return []Rule{
		OverdueInvoicesRule,
		UnconfirmedAppointmentsRule,
		PendingActionsRule,
		StaleQuotesRule,
	}
}

func dueIn(d time.Duration) *time.Time {
	at := clock.Now().Add(d)
	return &at
}

// OverdueInvoicesRule proposes a collections task once at least one invoice
// is overdue, escalating to HIGH at 5 and URGENT at 20.
func OverdueInvoicesRule(s *Snapshot) *task.Candidate {
	if s.OverdueInvoices < 1 {
		return nil
	}
	priority := task.PriorityMedium
	switch {
	case s.OverdueInvoices >= 20:
		priority = task.PriorityUrgent
	case s.OverdueInvoices >= 5:
		priority = task.PriorityHigh
	}
	return &task.Candidate{
		Title:       "Resolve overdue invoices",
		Description: fmt.Sprintf("%d invoices are past due and need follow-up.", s.OverdueInvoices),
		Priority:    priority,
		DueAt:       dueIn(48 * time.Hour),
		Key:         task.DedupKey{SourceType: task.SourceEvent, SourceID: "overdue_invoices"},
		Metadata:    map[string]interface{}{"count": s.OverdueInvoices},
	}
}

// UnconfirmedAppointmentsRule proposes a confirmation chase once at least
// one appointment is unconfirmed, escalating to HIGH at 10.
func UnconfirmedAppointmentsRule(s *Snapshot) *task.Candidate {
	if s.UnconfirmedAppointments < 1 {
		return nil
	}
	priority := task.PriorityMedium
	if s.UnconfirmedAppointments >= 10 {
		priority = task.PriorityHigh
	}
	return &task.Candidate{
		Title:          "Confirm upcoming appointments",
		Description:    fmt.Sprintf("%d appointments are awaiting confirmation.", s.UnconfirmedAppointments),
		OwnerAgentKind: "scheduler",
		Priority:       priority,
		DueAt:          dueIn(24 * time.Hour),
		Key:            task.DedupKey{SourceType: task.SourceEvent, SourceID: "unconfirmed_appointments"},
		Metadata:       map[string]interface{}{"count": s.UnconfirmedAppointments},
	}
}

// PendingActionsRule proposes an approval-backlog task once at least one
// action awaits a decision, escalating to HIGH at 5.
func PendingActionsRule(s *Snapshot) *task.Candidate {
	if s.PendingActions < 1 {
		return nil
	}
	priority := task.PriorityMedium
	if s.PendingActions >= 5 {
		priority = task.PriorityHigh
	}
	return &task.Candidate{
		Title:       "Review pending approvals",
		Description: fmt.Sprintf("%d proposed actions are waiting for a decision.", s.PendingActions),
		Priority:    priority,
		DueAt:       dueIn(12 * time.Hour),
		Key:         task.DedupKey{SourceType: task.SourceEvent, SourceID: "pending_actions"},
		Metadata:    map[string]interface{}{"count": s.PendingActions},
	}
}

// StaleQuotesRule proposes a quote follow-up once at least one quote has
// gone stale, escalating to HIGH at 10.
func StaleQuotesRule(s *Snapshot) *task.Candidate {
	if s.StaleQuotes < 1 {
		return nil
	}
	priority := task.PriorityMedium
	if s.StaleQuotes >= 10 {
		priority = task.PriorityHigh
	}
	return &task.Candidate{
		Title:       "Follow up on stale quotes",
		Description: fmt.Sprintf("%d quotes have had no activity recently.", s.StaleQuotes),
		Priority:    priority,
		DueAt:       dueIn(72 * time.Hour),
		Key:         task.DedupKey{SourceType: task.SourceEvent, SourceID: "stale_quotes"},
		Metadata:    map[string]interface{}{"count": s.StaleQuotes},
	}
}
