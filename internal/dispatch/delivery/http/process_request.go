package http

import (
	"strconv"

	"dispatch-srv/pkg/errors"
	"dispatch-srv/pkg/response"
	"dispatch-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// actorID resolves the responder acting on this request. The path id must
// match the authenticated subject unless the caller holds the admin role.
func (h *Handler) actorID(c *gin.Context) (int64, bool) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return 0, false
	}

	ctx := c.Request.Context()
	subject, ok := scope.GetSubjectIDFromContext(ctx)
	if !ok {
		response.Unauthorized(c)
		return 0, false
	}

	if subject != id {
		if role, _ := scope.GetRoleFromContext(ctx); role != scope.RoleAdmin {
			h.logger.Warnf(ctx, "internal.dispatch.delivery.http.actorID: subject %d acting as %d denied", subject, id)
			response.Error(c, errors.NewHTTPError(403, "Cannot act on behalf of another responder"))
			return 0, false
		}
	}

	return id, true
}

// reporterID resolves the authenticated reporter, if any.
func reporterID(c *gin.Context) *int64 {
	subject, ok := scope.GetSubjectIDFromContext(c.Request.Context())
	if !ok {
		return nil
	}
	return &subject
}
