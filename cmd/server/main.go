package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"slateboard-backend/internal/config"
	httpHandler "slateboard-backend/internal/delivery/http"
	"slateboard-backend/internal/delivery/ws"
	"slateboard-backend/internal/metrics"
	"slateboard-backend/internal/middleware"
	"slateboard-backend/pkg/logger"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.WithModule("server")

	// Initialize dependencies
	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry, logger.WithModule("dispatcher"))
	handler := httpHandler.NewHandler(cfg, dispatcher)

	sweeper := ws.NewSweeper(registry, logger.WithModule("sweeper"),
		ws.WithThreshold(cfg.RoomTTL),
		ws.WithInterval(cfg.SweepInterval),
	)
	if err := sweeper.Start(); err != nil {
		log.Fatal("failed to start room sweeper", zap.Error(err))
	}

	// Rate limiters from configuration
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, 10)

	// Setup routes
	mux := http.NewServeMux()

	// WebSocket route with rate limiting
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))

	// Operational routes
	mux.HandleFunc("/health", handler.HandleHealth)
	mux.HandleFunc("GET /api/room/{code}", middleware.RateLimitFunc(apiLimiter, handler.HandleRoomInfo))
	mux.Handle("/metrics", metrics.Handler())

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("slateboard server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	<-sweeper.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}
