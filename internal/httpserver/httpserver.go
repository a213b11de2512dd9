package httpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Run starts the HTTP server and background services, then blocks until shutdown signal.
// Lifecycle:
//  1. Map HTTP handlers and routes
//  2. Start the connection registry loop
//  3. Start HTTP server
//  4. Wait for shutdown signal, then drain connections
func (srv *HTTPServer) Run() error {
	ctx := context.Background()

	// 1. Map handlers
	if err := srv.mapHandlers(); err != nil {
		srv.logger.Fatalf(ctx, "Failed to map handlers: %v", err)
		return err
	}

	// 2. Start the registry register/unregister loop
	go srv.registry.Run()
	srv.logger.Info(ctx, "Connection registry background service started")

	// 3. Start HTTP server in background
	go func() {
		if err := srv.gin.Run(fmt.Sprintf(":%d", srv.port)); err != nil {
			srv.logger.Errorf(ctx, "HTTP server error: %v", err)
		}
	}()

	srv.logger.Infof(ctx, "HTTP server started on port: %d", srv.port)

	// 4. Wait for shutdown signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	srv.logger.Info(ctx, <-ch)
	srv.logger.Info(ctx, "Stopping dispatch service...")

	// Graceful shutdown: close all live connections and stop the loop.
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.registry.Shutdown(shutdownCtx); err != nil {
		srv.logger.Errorf(ctx, "Connection registry shutdown error: %v", err)
	}

	return nil
}
