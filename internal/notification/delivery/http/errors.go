package http

import (
	"net/http"

	"dispatch-srv/internal/notification"
	pkgErrors "dispatch-srv/pkg/errors"
	"dispatch-srv/pkg/response"
)

var errorMapping = response.ErrorMapping{
	notification.ErrNotificationNotFound: pkgErrors.NewNotFoundHTTPError("Notification not found"),
	notification.ErrInvalidInput:         pkgErrors.NewHTTPError(http.StatusBadRequest, "Invalid input"),
	notification.ErrNoRecipients:         pkgErrors.NewHTTPError(http.StatusBadRequest, "No recipients for this broadcast"),
}
