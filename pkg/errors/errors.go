package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ValidationError is an error with a field and messages.
type ValidationError struct {
	Code     int      `json:"code"`
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// NewValidationError creates a new validation error.
func NewValidationError(field string, messages ...string) *ValidationError {
	return &ValidationError{Code: http.StatusBadRequest, Field: field, Messages: messages}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, strings.Join(e.Messages, ", "))
}

// HTTPError represents an HTTP error with status code and message.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

// NewHTTPError returns a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, StatusCode: code}
}

// NewNotFoundHTTPError returns a 404 Not Found error.
func NewNotFoundHTTPError(message string) *HTTPError {
	return &HTTPError{Code: http.StatusNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// NewUnauthorizedHTTPError returns a 401 Unauthorized error.
func NewUnauthorizedHTTPError() *HTTPError {
	return &HTTPError{
		Code:       http.StatusUnauthorized,
		Message:    "Unauthorized",
		StatusCode: http.StatusUnauthorized,
	}
}

// NewConflictHTTPError returns a 409 Conflict error.
func NewConflictHTTPError(message string) *HTTPError {
	return &HTTPError{Code: http.StatusConflict, Message: message, StatusCode: http.StatusConflict}
}

func (e *HTTPError) Error() string {
	return e.Message
}
