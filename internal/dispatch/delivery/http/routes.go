package http

import (
	"dispatch-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the emergency and responder routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	emergencies := r.Group("/emergencies", mw.Auth())
	{
		emergencies.POST("", h.report)
		emergencies.GET("/active", h.listActive)
		emergencies.GET("/:id", h.detail)
		emergencies.POST("/:id/cancel", h.cancel)
		emergencies.POST("/:id/resolve", h.resolve)
	}

	responders := r.Group("/responders", mw.Auth())
	{
		responders.POST("/:id/accept", h.accept)
		responders.POST("/:id/arrive", h.arrive)
		responders.POST("/:id/complete", h.complete)
		responders.POST("/:id/check-in", h.checkIn)
		responders.POST("/:id/check-out", h.checkOut)
		responders.POST("/:id/location", h.updateLocation)
		responders.GET("/:id/dashboard", h.dashboard)
	}
}
