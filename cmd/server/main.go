package main

import (
	"context"
	"fmt"

	"dispatch-srv/config"
	"dispatch-srv/config/postgre"
	redisconn "dispatch-srv/config/redis"
	dispatchHTTP "dispatch-srv/internal/dispatch/delivery/http"
	dispatchUC "dispatch-srv/internal/dispatch/usecase"
	"dispatch-srv/internal/httpserver"
	notificationHTTP "dispatch-srv/internal/notification/delivery/http"
	notificationUC "dispatch-srv/internal/notification/usecase"
	"dispatch-srv/internal/registry"
	"dispatch-srv/internal/storage/postgres"
	storageRedis "dispatch-srv/internal/storage/redis"
	"dispatch-srv/internal/websocket"
	"dispatch-srv/pkg/jwt"
	"dispatch-srv/pkg/log"
)

// @Name Community Emergency Dispatch API
// @description Real-time dispatch and notification fan-out for residential communities.
// @version 1
// @host localhost:8082
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:    cfg.Logger.Level,
		Mode:     cfg.Logger.Mode,
		Encoding: cfg.Logger.Encoding,
	})

	ctx := context.Background()

	// Initialize PostgreSQL
	pool, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Error(ctx, "Failed to connect to PostgreSQL: ", err)
		return
	}
	defer pool.Close()
	logger.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)

	// Initialize Redis
	redisClient, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Error(ctx, "Failed to connect to Redis: ", err)
		return
	}
	defer redisClient.Close()
	logger.Infof(ctx, "Redis connected successfully to %s:%d", cfg.Redis.Host, cfg.Redis.Port)

	// Stores and cache
	store := postgres.New(pool, logger)
	emergencyCache := storageRedis.NewEmergencyCache(redisClient, cfg.Redis.ActiveTTL)

	// JWT manager
	jwtManager := jwt.New(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Issuer:    cfg.JWT.Issuer,
		TTL:       cfg.JWT.TTL,
	})

	// Connection registry and live gateway
	reg := registry.NewRegistry(logger, cfg.WebSocket.MaxConnections)
	gateway := websocket.NewGateway(reg, logger)

	// Use cases
	notifier := notificationUC.New(logger, store.Notifications, store.Users, gateway)
	dispatcher := dispatchUC.New(
		logger,
		store.Emergencies,
		store.Assignments,
		store.Responders,
		store.Users,
		notifier,
		gateway,
		emergencyCache,
	)

	// WebSocket delivery
	commands := websocket.NewCommandHandler(dispatcher, logger)
	wsHandler := websocket.NewHandler(
		reg,
		commands,
		jwtManager,
		store.Responders,
		store.Users,
		logger,
		websocket.WSConfig{
			PongWait:       cfg.WebSocket.PongWait,
			PingPeriod:     cfg.WebSocket.PingInterval,
			WriteWait:      cfg.WebSocket.WriteWait,
			MaxConnections: cfg.WebSocket.MaxConnections,
		},
		cfg.Environment.Name,
		cfg.Server.AllowedOrigins,
	)

	// Initialize HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.Server.Port,
		Mode:        cfg.Server.Mode,
		Environment: cfg.Environment.Name,

		Registry: reg,

		DispatchHandler:     dispatchHTTP.New(dispatcher, logger),
		NotificationHandler: notificationHTTP.New(notifier, logger),
		WSHandler:           wsHandler,

		JWTManager: jwtManager,

		Pool:  pool,
		Redis: redisClient,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}
}
