package task

import (
	"time"
)

// Priority orders tracked tasks for human triage.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Status tracks the progress of a persisted task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusBlocked    Status = "BLOCKED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// OpenStatuses is the set of statuses under which a task still counts as
// "being worked" for deduplication purposes.
var OpenStatuses = []Status{StatusPending, StatusInProgress, StatusBlocked}

// IsOpen reports whether s belongs to OpenStatuses.
func (s Status) IsOpen() bool {
	for _, open := range OpenStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// SourceType classifies what kind of recurring condition a task tracks.
type SourceType string

const (
	SourceEvent   SourceType = "EVENT"
	SourceInsight SourceType = "INSIGHT"
	SourceManual  SourceType = "MANUAL"
)

// DedupKey identifies which recurring condition a tracked task follows. The
// key is stable for a given condition across planner runs and is the sole
// identity used to detect "already tracked".
type DedupKey struct {
	SourceType SourceType `json:"sourceType"`
	SourceID   string     `json:"sourceId"`
}

// Candidate is an ephemeral planner proposal for a recurring operational
// task. Exactly one of OwnerUserID or OwnerAgentKind is populated.
type Candidate struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	OwnerUserID    string                 `json:"ownerUserId,omitempty"`
	OwnerAgentKind string                 `json:"ownerAgentKind,omitempty"`
	Priority       Priority               `json:"priority"`
	DueAt          *time.Time             `json:"dueAt,omitempty"`
	Key            DedupKey               `json:"key"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Tracked is the persisted task materialized from an accepted Candidate. It
// carries the candidate's dedup key; while a Tracked with the same key is in
// an open status no new one is created for that condition.
type Tracked struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`

	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	OwnerUserID    string                 `json:"ownerUserId,omitempty"`
	OwnerAgentKind string                 `json:"ownerAgentKind,omitempty"`
	Priority       Priority               `json:"priority"`
	Status         Status                 `json:"status"`
	DueAt          *time.Time             `json:"dueAt,omitempty"`
	Key            DedupKey               `json:"key"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
