package dispatch

import (
	"errors"
	"fmt"

	"dispatch-srv/internal/model"
)

var (
	ErrEmergencyNotFound  = errors.New("emergency not found")
	ErrResponderNotFound  = errors.New("responder not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrEmergencyClosed    = errors.New("emergency already resolved or cancelled")
	ErrResponderOffDuty   = errors.New("responder is not on duty")
	ErrInvalidInput       = errors.New("invalid dispatch input")
)

// InvalidTransitionError reports an assignment command that is illegal in the
// assignment's current state. The current state travels with the error so
// socket replies can echo it.
type InvalidTransitionError struct {
	Current   model.AssignmentStatus
	Attempted model.AssignmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid assignment transition %s -> %s", e.Current, e.Attempted)
}

// IsInvalidTransition unwraps an InvalidTransitionError if err carries one.
func IsInvalidTransition(err error) (*InvalidTransitionError, bool) {
	var ite *InvalidTransitionError
	if errors.As(err, &ite) {
		return ite, true
	}
	return nil, false
}
