package action

import (
	"time"
)

// Type identifies the side-effecting operation an action proposes. Every
// value must have a matching handler registered before the engine starts.
type Type string

const (
	TypeSendMessage      Type = "SEND_MESSAGE"
	TypeCreateCampaign   Type = "CREATE_CAMPAIGN"
	TypeApplyDiscount    Type = "APPLY_DISCOUNT"
	TypeScheduleFollowUp Type = "SCHEDULE_FOLLOWUP"
	TypeCreateTask       Type = "CREATE_TASK"
)

// Types returns the closed set of action types the engine dispatches on.
func Types() []Type {
	return []Type{
		TypeSendMessage,
		TypeCreateCampaign,
		TypeApplyDiscount,
		TypeScheduleFollowUp,
		TypeCreateTask,
	}
}

// IsValid reports whether t belongs to the enumerated type set.
func (t Type) IsValid() bool {
	for _, candidate := range Types() {
		if t == candidate {
			return true
		}
	}
	return false
}

// RiskLevel is a free-form severity label attached at proposal time.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Action represents a single proposed, approvable, executable unit of work.
// Records are never deleted; terminal states are final and the row doubles
// as the audit trail.
type Action struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`

	Type      Type      `json:"actionType"`
	RiskLevel RiskLevel `json:"riskLevel,omitempty"`

	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`

	// Provenance: opaque references back to whatever produced the
	// proposal; the engine never validates them.
	InsightID        string `json:"insightId,omitempty"`
	CopilotSessionID string `json:"copilotSessionId,omitempty"`

	Status           Status      `json:"status"`
	RequiresApproval bool        `json:"requiresApproval"`
	ExecutedBy       string      `json:"executedBy,omitempty"`
	ExecutedAt       *time.Time  `json:"executedAt,omitempty"`
	Result           interface{} `json:"result,omitempty"`
	ErrorMessage     string      `json:"errorMessage,omitempty"`
	ExpiresAt        *time.Time  `json:"expiresAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expired reports whether the action is still awaiting approval past its
// deadline. Actions with no deadline never expire.
func (a *Action) Expired(now time.Time) bool {
	return a.Status == StatusPending && a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}
