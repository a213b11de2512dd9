package http

import (
	"net/http"

	"dispatch-srv/internal/dispatch"
	pkgErrors "dispatch-srv/pkg/errors"
	"dispatch-srv/pkg/response"
)

var errorMapping = response.ErrorMapping{
	dispatch.ErrEmergencyNotFound:  pkgErrors.NewNotFoundHTTPError("Emergency not found"),
	dispatch.ErrResponderNotFound:  pkgErrors.NewNotFoundHTTPError("Responder not found"),
	dispatch.ErrAssignmentNotFound: pkgErrors.NewNotFoundHTTPError("Assignment not found"),
	dispatch.ErrEmergencyClosed:    pkgErrors.NewConflictHTTPError("Emergency is already closed"),
	dispatch.ErrResponderOffDuty:   pkgErrors.NewConflictHTTPError("Responder is not on duty"),
	dispatch.ErrInvalidInput:       pkgErrors.NewHTTPError(http.StatusBadRequest, "Invalid input"),
}

// mapError translates usecase errors to HTTP errors. Invalid transitions
// carry the current status, so they get a per-error message.
func mapError(err error) error {
	if transitionErr, ok := dispatch.IsInvalidTransition(err); ok {
		return pkgErrors.NewConflictHTTPError(transitionErr.Error())
	}
	return err
}
