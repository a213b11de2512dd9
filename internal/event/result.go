package event

import "encoding/json"

// Result is the structured reply to a client→server command. Business
// failures travel inside this envelope; the socket itself stays open.
type Result struct {
	RequestID string `json:"request_id,omitempty"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data"`
}

// OKResult builds a success reply.
func OKResult(requestID, message string, data any) Result {
	return Result{RequestID: requestID, Success: true, Message: message, Data: data}
}

// FailResult builds a failure reply with a nil data field.
func FailResult(requestID, message string) Result {
	return Result{RequestID: requestID, Success: false, Message: message, Data: nil}
}

// Marshal serializes the result for transport.
func (r Result) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
