package http

import (
	"dispatch-srv/pkg/errors"
	"dispatch-srv/pkg/response"
	"dispatch-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// recipient resolves the authenticated feed owner.
func recipient(c *gin.Context) (int64, bool) {
	userID, ok := scope.GetSubjectIDFromContext(c.Request.Context())
	if !ok {
		response.Unauthorized(c)
		return 0, false
	}
	return userID, true
}

// list returns the caller's notification feed.
// @Summary List notifications
// @Tags Notification
// @Produce json
// @Param unread_only query bool false "Only unread"
// @Param include_archived query bool false "Include archived"
// @Param type query string false "Filter by type"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Resp "Notifications"
// @Router /api/v1/notifications [get]
func (h *Handler) list(c *gin.Context) {
	userID, ok := recipient(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, errors.NewValidationError("query", "invalid query parameters"))
		return
	}

	notifications, err := h.uc.List(ctx, userID, req.toInput())
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.list: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, notifications)
}

// unreadCount returns the caller's unread badge count.
// @Summary Unread notification count
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Resp "Unread count"
// @Router /api/v1/notifications/counts [get]
func (h *Handler) unreadCount(c *gin.Context) {
	userID, ok := recipient(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	count, err := h.uc.UnreadCount(ctx, userID)
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.unreadCount: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, countsResp{Unread: count})
}

// stats returns total, unread, and per-type counts for the caller's feed.
// @Summary Notification feed stats
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Resp "Feed stats"
// @Router /api/v1/notifications/stats [get]
func (h *Handler) stats(c *gin.Context) {
	userID, ok := recipient(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	out, err := h.uc.Stats(ctx, userID)
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.stats: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, out)
}

// markRead marks the given notifications as read.
// @Summary Mark notifications read
// @Tags Notification
// @Accept json
// @Produce json
// @Param body body markReadReq true "Notification IDs"
// @Success 200 {object} response.Resp "Updated count"
// @Router /api/v1/notifications/read [post]
func (h *Handler) markRead(c *gin.Context) {
	userID, ok := recipient(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req markReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.uc.MarkRead(ctx, userID, req.IDs)
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.markRead: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, markedResp{Updated: updated})
}

// markAllRead marks the caller's whole feed as read.
// @Summary Mark all notifications read
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Resp "Updated count"
// @Router /api/v1/notifications/read-all [post]
func (h *Handler) markAllRead(c *gin.Context) {
	userID, ok := recipient(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	updated, err := h.uc.MarkAllRead(ctx, userID)
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.markAllRead: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, markedResp{Updated: updated})
}

// archive hides one notification from the default feed.
// @Summary Archive a notification
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Resp
// @Failure 404 {object} response.Resp "Notification not found"
// @Router /api/v1/notifications/{id}/archive [post]
func (h *Handler) archive(c *gin.Context) {
	userID, ok := recipient(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errors.NewValidationError("id", "notification id is required"))
		return
	}

	if err := h.uc.Archive(ctx, userID, id); err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.archive: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, nil)
}

// broadcast sends a community-wide announcement to every active user.
// Restricted to the admin role.
// @Summary Broadcast to all users
// @Tags Notification
// @Accept json
// @Produce json
// @Param body body broadcastReq true "Announcement"
// @Success 200 {object} response.Resp "Fan-out result"
// @Failure 403 {object} response.Resp "Admin role required"
// @Router /api/v1/notifications/broadcast [post]
func (h *Handler) broadcast(c *gin.Context) {
	userID, ok := h.requireAdmin(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req broadcastReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.ToAll(ctx, req.toInput(&userID))
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.broadcast: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, out)
}

// broadcastGroup sends an announcement to one RT/RW neighborhood group.
// Restricted to the admin role.
// @Summary Broadcast to a neighborhood group
// @Tags Notification
// @Accept json
// @Produce json
// @Param key path string true "RT/RW group key"
// @Param body body broadcastReq true "Announcement"
// @Success 200 {object} response.Resp "Fan-out result"
// @Failure 403 {object} response.Resp "Admin role required"
// @Router /api/v1/notifications/broadcast/group/{key} [post]
func (h *Handler) broadcastGroup(c *gin.Context) {
	userID, ok := h.requireAdmin(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	key := c.Param("key")
	if key == "" {
		response.Error(c, errors.NewValidationError("key", "group key is required"))
		return
	}

	var req broadcastReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.ToGroup(ctx, key, req.toInput(&userID))
	if err != nil {
		h.logger.Errorf(ctx, "internal.notification.delivery.http.broadcastGroup: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, out)
}

// requireAdmin resolves the caller and rejects non-admin roles.
func (h *Handler) requireAdmin(c *gin.Context) (int64, bool) {
	userID, ok := recipient(c)
	if !ok {
		return 0, false
	}
	if role, _ := scope.GetRoleFromContext(c.Request.Context()); role != scope.RoleAdmin {
		h.logger.Warnf(c.Request.Context(), "internal.notification.delivery.http.requireAdmin: subject %d denied", userID)
		response.Error(c, errors.NewHTTPError(403, "Admin role required"))
		return 0, false
	}
	return userID, true
}
