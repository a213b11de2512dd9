package httpserver

import (
	"dispatch-srv/internal/middleware"

	// Import this to execute the init function in docs.go which setups the Swagger docs.
	_ "dispatch-srv/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	Api = "/api/v1"
)

func (srv *HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.logger, srv.jwtManager)

	srv.gin.Use(middleware.Recovery(srv.logger))

	// Apply CORS middleware globally
	corsConfig := middleware.DefaultCORSConfig()
	srv.gin.Use(middleware.CORS(corsConfig))

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket upgrade (token auth happens inside the handler)
	root := srv.gin.Group("")
	srv.wsHandler.RegisterRoutes(root)

	// API routes
	api := srv.gin.Group(Api)
	srv.dispatchHandler.RegisterRoutes(api, mw)
	srv.notificationHandler.RegisterRoutes(api, mw)

	return nil
}
