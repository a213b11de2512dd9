package httpserver

import (
	"errors"

	dispatchHTTP "dispatch-srv/internal/dispatch/delivery/http"
	notificationHTTP "dispatch-srv/internal/notification/delivery/http"
	"dispatch-srv/internal/registry"
	"dispatch-srv/internal/websocket"
	"dispatch-srv/pkg/jwt"
	"dispatch-srv/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// HTTPServer represents the HTTP server with all dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) is responsible for starting background services and HTTP serving.
type HTTPServer struct {
	// Server configuration
	gin         *gin.Engine
	logger      log.Logger
	port        int
	environment string

	// Connection registry (background service)
	registry *registry.Registry

	// Delivery handlers
	dispatchHandler     *dispatchHTTP.Handler
	notificationHandler *notificationHTTP.Handler
	wsHandler           *websocket.Handler

	// Auth
	jwtManager jwt.Manager

	// External services (health checks)
	pool  *pgxpool.Pool
	redis *goredis.Client
}

// Config is the constructor input for HTTPServer.
// Keep this minimal: only fields really needed by HTTPServer.
type Config struct {
	// Server configuration
	Port        int
	Mode        string
	Environment string

	// Connection registry
	Registry *registry.Registry

	// Delivery handlers
	DispatchHandler     *dispatchHTTP.Handler
	NotificationHandler *notificationHTTP.Handler
	WSHandler           *websocket.Handler

	// Auth
	JWTManager jwt.Manager

	// External services
	Pool  *pgxpool.Pool
	Redis *goredis.Client
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start the service.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		gin:         gin.New(),
		logger:      logger,
		port:        cfg.Port,
		environment: cfg.Environment,

		registry: cfg.Registry,

		dispatchHandler:     cfg.DispatchHandler,
		notificationHandler: cfg.NotificationHandler,
		wsHandler:           cfg.WSHandler,

		jwtManager: cfg.JWTManager,

		pool:  cfg.Pool,
		redis: cfg.Redis,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (s *HTTPServer) validate() error {
	if s.logger == nil {
		return errors.New("logger is required")
	}
	if s.port == 0 {
		return errors.New("port is required")
	}
	if s.registry == nil {
		return errors.New("connection registry is required")
	}
	if s.dispatchHandler == nil {
		return errors.New("dispatch handler is required")
	}
	if s.notificationHandler == nil {
		return errors.New("notification handler is required")
	}
	if s.wsHandler == nil {
		return errors.New("websocket handler is required")
	}
	if s.jwtManager == nil {
		return errors.New("JWTManager is required")
	}

	return nil
}
