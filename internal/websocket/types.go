package websocket

import (
	"encoding/json"
	"time"
)

// WSConfig holds WebSocket configuration
type WSConfig struct {
	PongWait       time.Duration
	PingPeriod     time.Duration
	WriteWait      time.Duration
	MaxConnections int
}

// Action is a client→server command name. The set is closed; anything else
// gets a structured error reply.
type Action string

const (
	ActionAcceptEmergency   Action = "accept_emergency"
	ActionArriveAtEmergency Action = "arrive_at_emergency"
	ActionCompleteEmergency Action = "complete_emergency"
	ActionUpdateLocation    Action = "update_location"
	ActionCheckIn           Action = "check_in"
	ActionCheckOut          Action = "check_out"
	ActionGetUpdates        Action = "get_emergency_updates"
)

// Command is one inbound frame from a responder client.
type Command struct {
	Action    Action          `json:"action"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// emergencyRef is the data body shared by accept/arrive commands.
type emergencyRef struct {
	EmergencyID int64 `json:"emergency_id"`
}

type completeBody struct {
	EmergencyID int64  `json:"emergency_id"`
	ActionTaken string `json:"action_taken"`
	Notes       string `json:"notes,omitempty"`
}

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type checkInBody struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// welcomePayload is the CONNECTED event body.
type welcomePayload struct {
	Identity    string    `json:"identity"`
	Rooms       []string  `json:"rooms"`
	ConnectedAt time.Time `json:"connected_at"`
}
