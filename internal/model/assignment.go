package model

import "time"

// AssignmentStatus is the lifecycle status of one responder's engagement
// with one emergency.
type AssignmentStatus string

const (
	AssignmentDispatched AssignmentStatus = "DISPATCHED"
	AssignmentEnRoute    AssignmentStatus = "EN_ROUTE"
	AssignmentArrived    AssignmentStatus = "ARRIVED"
	AssignmentHandling   AssignmentStatus = "HANDLING"
	AssignmentResolved   AssignmentStatus = "RESOLVED"
	AssignmentCancelled  AssignmentStatus = "CANCELLED"
)

// ActiveAssignmentStatuses are the non-terminal assignment states.
var ActiveAssignmentStatuses = []AssignmentStatus{
	AssignmentDispatched,
	AssignmentEnRoute,
	AssignmentArrived,
	AssignmentHandling,
}

// Assignment tracks one responder dispatched to one emergency.
// At most one row exists per (responder, emergency) pair.
type Assignment struct {
	ID                  int64            `json:"id"`
	EmergencyID         int64            `json:"emergency_id"`
	ResponderID         int64            `json:"responder_id"`
	Status              AssignmentStatus `json:"status"`
	ResponseTimeSeconds int64            `json:"response_time_seconds"`
	ArrivedAt           *time.Time       `json:"arrived_at,omitempty"`
	CompletedAt         *time.Time       `json:"completed_at,omitempty"`
	ActionTaken         string           `json:"action_taken,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// Active reports whether the assignment is still in progress.
func (a Assignment) Active() bool {
	switch a.Status {
	case AssignmentDispatched, AssignmentEnRoute, AssignmentArrived, AssignmentHandling:
		return true
	}
	return false
}
