package model

import "time"

// ResponderStatus is the employment status of a security responder.
type ResponderStatus string

const (
	ResponderActive    ResponderStatus = "ACTIVE"
	ResponderInactive  ResponderStatus = "INACTIVE"
	ResponderOnLeave   ResponderStatus = "ON_LEAVE"
	ResponderSuspended ResponderStatus = "SUSPENDED"
)

// Responder is on-duty security personnel capable of being dispatched.
// This row is the durable truth for duty state and last known position;
// the connection registry only tracks live sockets.
type Responder struct {
	ID               int64           `json:"id"`
	UserID           *int64          `json:"user_id,omitempty"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone,omitempty"`
	Shift            string          `json:"shift,omitempty"`
	Status           ResponderStatus `json:"status"`
	IsOnDuty         bool            `json:"is_on_duty"`
	CurrentLocation  string          `json:"current_location,omitempty"`
	CurrentLatitude  *float64        `json:"current_latitude,omitempty"`
	CurrentLongitude *float64        `json:"current_longitude,omitempty"`
	LastActiveAt     *time.Time      `json:"last_active_at,omitempty"`
	EmergencyCount   int64           `json:"emergency_count"`
	CreatedAt        time.Time       `json:"created_at"`
}

// HasCoordinates reports whether the responder has a usable position.
func (r Responder) HasCoordinates() bool {
	return r.CurrentLatitude != nil && r.CurrentLongitude != nil
}

// Dispatchable reports whether the responder can receive a dispatch right now.
func (r Responder) Dispatchable() bool {
	return r.Status == ResponderActive && r.IsOnDuty
}
