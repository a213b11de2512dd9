package http

import (
	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/model"
	"dispatch-srv/pkg/errors"
)

// --- Request DTOs ---

type reportReq struct {
	Type      string   `json:"type"`
	Details   string   `json:"details"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Severity  string   `json:"severity"`
}

func (r reportReq) validate() error {
	if r.Type == "" {
		return errors.NewValidationError("type", "emergency type is required")
	}
	return nil
}

func (r reportReq) toInput(userID *int64) dispatch.ReportInput {
	return dispatch.ReportInput{
		Type:      r.Type,
		Details:   r.Details,
		Location:  r.Location,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Severity:  model.EmergencySeverity(r.Severity),
		UserID:    userID,
	}
}

type actionReq struct {
	EmergencyID int64 `json:"emergency_id"`
}

func (r actionReq) validate() error {
	if r.EmergencyID == 0 {
		return errors.NewValidationError("emergency_id", "emergency_id is required")
	}
	return nil
}

func (r actionReq) toInput(responderID int64) dispatch.ActionInput {
	return dispatch.ActionInput{
		ResponderID: responderID,
		EmergencyID: r.EmergencyID,
	}
}

type completeReq struct {
	EmergencyID int64  `json:"emergency_id"`
	ActionTaken string `json:"action_taken"`
	Notes       string `json:"notes"`
}

func (r completeReq) validate() error {
	if r.EmergencyID == 0 {
		return errors.NewValidationError("emergency_id", "emergency_id is required")
	}
	if r.ActionTaken == "" {
		return errors.NewValidationError("action_taken", "action_taken is required")
	}
	return nil
}

func (r completeReq) toInput(responderID int64) dispatch.CompleteInput {
	return dispatch.CompleteInput{
		ResponderID: responderID,
		EmergencyID: r.EmergencyID,
		ActionTaken: r.ActionTaken,
		Notes:       r.Notes,
	}
}

type checkInReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r checkInReq) toInput(responderID int64) dispatch.CheckInInput {
	return dispatch.CheckInInput{
		ResponderID: responderID,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}

type locationReq struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r locationReq) toInput(responderID int64) dispatch.UpdateLocationInput {
	return dispatch.UpdateLocationInput{
		ResponderID: responderID,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}

// --- Response DTOs ---

type dashboardResp struct {
	Snapshot dispatch.SnapshotOutput `json:"snapshot"`
	Stats    dispatch.StatsOutput    `json:"stats"`
}
