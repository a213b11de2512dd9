package model

import "time"

// EmergencySeverity grades how urgent an emergency is.
type EmergencySeverity string

const (
	SeverityLow      EmergencySeverity = "LOW"
	SeverityMedium   EmergencySeverity = "MEDIUM"
	SeverityHigh     EmergencySeverity = "HIGH"
	SeverityCritical EmergencySeverity = "CRITICAL"
)

// EmergencyStatus is the lifecycle status of an emergency.
type EmergencyStatus string

const (
	EmergencyActive    EmergencyStatus = "ACTIVE"
	EmergencyResolved  EmergencyStatus = "RESOLVED"
	EmergencyCancelled EmergencyStatus = "CANCELLED"
)

// Emergency is one SOS report filed by a resident (or anonymously).
type Emergency struct {
	ID                int64             `json:"id"`
	Type              string            `json:"type"`
	Details           string            `json:"details,omitempty"`
	Location          string            `json:"location,omitempty"`
	Latitude          *float64          `json:"latitude,omitempty"`
	Longitude         *float64          `json:"longitude,omitempty"`
	Severity          EmergencySeverity `json:"severity"`
	Status            EmergencyStatus   `json:"status"`
	UserID            *int64            `json:"user_id,omitempty"`
	AlarmSent         bool              `json:"alarm_sent"`
	AlarmSentAt       *time.Time        `json:"alarm_sent_at,omitempty"`
	ResponderAssigned bool              `json:"responder_assigned"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Terminal reports whether the emergency can no longer change state.
func (e Emergency) Terminal() bool {
	return e.Status == EmergencyResolved || e.Status == EmergencyCancelled
}

// HasCoordinates reports whether the report carries a usable position.
func (e Emergency) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}
