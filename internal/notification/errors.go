package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid notification input")
	ErrNoRecipients         = errors.New("no recipients for broadcast")
)
