package websocket

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the WebSocket upgrade route.
// Auth happens inside the handler because browser WebSocket clients cannot
// send an Authorization header; the token arrives in the query string.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ws := r.Group("/ws")
	{
		ws.GET("", h.HandleWebSocket)
	}
}
