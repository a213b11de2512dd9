package dispatch

import "dispatch-srv/internal/model"

// ReportInput is an SOS intake from the REST surface.
type ReportInput struct {
	Type      string
	Details   string
	Location  string
	Latitude  *float64
	Longitude *float64
	Severity  model.EmergencySeverity
	UserID    *int64
}

// ReportOutput carries the stored report plus the alarm fan-out outcome.
type ReportOutput struct {
	Emergency model.Emergency `json:"emergency"`
	Alarm     RaiseAlarmOutput `json:"alarm"`
}

// DispatchedResponder is one nearest-responder pick.
type DispatchedResponder struct {
	ResponderID int64   `json:"responder_id"`
	Name        string  `json:"name"`
	DistanceKm  float64 `json:"distance_km"`
}

// RaiseAlarmOutput reports what the alarm fan-out did. AlreadySent means a
// concurrent or earlier raise won; nothing was re-broadcast.
type RaiseAlarmOutput struct {
	EmergencyID int64                 `json:"emergency_id"`
	AlreadySent bool                  `json:"already_sent"`
	Delivered   int                   `json:"delivered"`
	Dispatched  []DispatchedResponder `json:"dispatched"`
}

// ActionInput identifies a responder acting on an emergency.
type ActionInput struct {
	ResponderID int64
	EmergencyID int64
}

// CompleteInput closes out an assignment with a report.
type CompleteInput struct {
	ResponderID int64
	EmergencyID int64
	ActionTaken string
	Notes       string
}

// AssignmentOutput is the reply to an assignment transition.
// AlreadyAssigned flags a duplicate accept resolved to the existing row.
type AssignmentOutput struct {
	Assignment      model.Assignment `json:"assignment"`
	AlreadyAssigned bool             `json:"already_assigned,omitempty"`
}

// CheckInInput starts a duty shift, optionally with a starting position.
type CheckInInput struct {
	ResponderID int64
	Latitude    *float64
	Longitude   *float64
}

// UpdateLocationInput is a live position report from a responder on duty.
type UpdateLocationInput struct {
	ResponderID int64
	Latitude    float64
	Longitude   float64
}

// EmergencyDetailOutput is one emergency with its assignment history.
type EmergencyDetailOutput struct {
	Emergency   model.Emergency    `json:"emergency"`
	Assignments []model.Assignment `json:"assignments"`
}

// SnapshotOutput is the reconnect reconciliation view for one responder.
type SnapshotOutput struct {
	ActiveEmergencies []model.Emergency  `json:"active_emergencies"`
	MyAssignments     []model.Assignment `json:"my_assignments"`
}

// AssignmentAggregate is the store-level rollup behind Stats.
type AssignmentAggregate struct {
	Total               int64
	Resolved            int64
	Cancelled           int64
	AvgResponseSeconds  float64
	AvgResolutionMillis float64
}

// StatsOutput summarizes one responder's dispatch history.
type StatsOutput struct {
	ResponderID        int64   `json:"responder_id"`
	TotalAssignments   int64   `json:"total_assignments"`
	Resolved           int64   `json:"resolved"`
	Cancelled          int64   `json:"cancelled"`
	CompletionRate     float64 `json:"completion_rate"`
	AvgResponseSeconds float64 `json:"avg_response_seconds"`
	EmergencyCount     int64   `json:"emergency_count"`
}
