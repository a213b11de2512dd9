package httpserver

import (
	"dispatch-srv/pkg/errors"
	"dispatch-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the dispatch service and its backends are healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if srv.pool != nil {
		if err := srv.pool.Ping(ctx); err != nil {
			response.Error(c, errors.NewHTTPError(503, "PostgreSQL connection failed"))
			return
		}
	}
	if srv.redis != nil {
		if err := srv.redis.Ping(ctx).Err(); err != nil {
			response.Error(c, errors.NewHTTPError(503, "Redis connection failed"))
			return
		}
	}

	stats := srv.registry.GetStats()

	response.OK(c, gin.H{
		"status":             "healthy",
		"version":            "1.0.0",
		"service":            "dispatch-srv",
		"active_connections": stats.ActiveConnections,
		"online_responders":  stats.OnlineResponders,
		"online_users":       stats.OnlineUsers,
		"alarms_relayed":     stats.TotalAlarmsRelayed,
	})
}

// readyCheck handles readiness check requests
// @Summary Readiness Check
// @Description Check if the dispatch service is ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is ready"
// @Failure 503 {object} map[string]interface{} "Service is not ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if srv.pool != nil {
		if err := srv.pool.Ping(ctx); err != nil {
			response.Error(c, errors.NewHTTPError(503, "PostgreSQL connection not available"))
			return
		}
	}
	if srv.redis != nil {
		if err := srv.redis.Ping(ctx).Err(); err != nil {
			response.Error(c, errors.NewHTTPError(503, "Redis connection not available"))
			return
		}
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"version": "1.0.0",
		"service": "dispatch-srv",
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the dispatch service is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": "1.0.0",
		"service": "dispatch-srv",
	})
}
