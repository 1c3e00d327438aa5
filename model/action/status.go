package action

// Status captures where an action sits in its lifecycle. The status only
// ever moves forward along the transition graph below; terminal states
// admit no further mutation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusExecuting Status = "EXECUTING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// transitions encodes the permitted forward edges of the lifecycle graph.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusExecuting},
	StatusExecuting: {
		StatusCompleted,
		StatusFailed,
	},
}

// CanTransition reports whether moving from -> to is a legal lifecycle edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// InitialStatus computes the creation-time status: actions that require a
// human decision start PENDING, everything else is auto-approved.
func InitialStatus(requiresApproval bool) Status {
	if requiresApproval {
		return StatusPending
	}
	return StatusApproved
}
