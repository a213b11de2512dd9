package http

import (
	"dispatch-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the notification feed and broadcast routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	notifications := r.Group("/notifications", mw.Auth())
	{
		notifications.GET("", h.list)
		notifications.GET("/counts", h.unreadCount)
		notifications.GET("/stats", h.stats)
		notifications.POST("/read", h.markRead)
		notifications.POST("/read-all", h.markAllRead)
		notifications.POST("/:id/archive", h.archive)

		// Broadcast endpoints for community announcements.
		notifications.POST("/broadcast", h.broadcast)
		notifications.POST("/broadcast/group/:key", h.broadcastGroup)
	}
}
