// Package event defines the server→client event envelope and the typed
// payload for each event kind. Every message pushed over a live socket is
// one of these; clients ignore kinds they do not know.
package event

import (
	"encoding/json"
	"time"
)

// Type enumerates server→client event kinds.
type Type string

const (
	TypeConnected          Type = "CONNECTED"
	TypeAlarm              Type = "ALARM"
	TypeDispatch           Type = "DISPATCH"
	TypeAssignmentAccepted Type = "ASSIGNMENT_ACCEPTED"
	TypeAssignmentArrived  Type = "ASSIGNMENT_ARRIVED"
	TypeAssignmentResolved Type = "ASSIGNMENT_RESOLVED"
	TypePresenceOnline     Type = "PRESENCE_ONLINE"
	TypePresenceOffline    Type = "PRESENCE_OFFLINE"
	TypeDutyStatus         Type = "DUTY_STATUS"
	TypeNotification       Type = "NOTIFICATION"
)

// Event is the wire envelope for a server→client push.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// New builds an event stamped with the current time.
func New(t Type, data any) Event {
	return Event{Type: t, Timestamp: time.Now(), Data: data}
}

// Marshal serializes the event for transport. A payload that cannot be
// marshaled is a programming error surfaced to the caller.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// AlarmPayload is pushed to every connected responder when an alarm is raised.
type AlarmPayload struct {
	EmergencyID   int64     `json:"emergency_id"`
	EmergencyType string    `json:"emergency_type"`
	Severity      string    `json:"severity"`
	Location      string    `json:"location,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	ReporterName  string    `json:"reporter_name"`
	ReporterPhone string    `json:"reporter_phone"`
	AlarmPriority string    `json:"alarm_priority"`
	SoundURL      string    `json:"sound_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// DispatchPayload augments an alarm with per-responder dispatch details.
type DispatchPayload struct {
	AlarmPayload
	ResponderID  int64   `json:"responder_id"`
	DistanceKm   float64 `json:"distance_km"`
	DispatchType string  `json:"dispatch_type"`
}

// AssignmentPayload announces an assignment transition to responder dashboards.
type AssignmentPayload struct {
	EmergencyID int64  `json:"emergency_id"`
	ResponderID int64  `json:"responder_id"`
	Status      string `json:"status"`
	ActionTaken string `json:"action_taken,omitempty"`
}

// PresencePayload announces a responder coming online/offline or changing duty.
type PresencePayload struct {
	ResponderID int64  `json:"responder_id"`
	Name        string `json:"name,omitempty"`
	IsOnline    bool   `json:"is_online"`
	IsOnDuty    bool   `json:"is_on_duty"`
}
