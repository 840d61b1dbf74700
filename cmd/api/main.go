package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffdir/staffdir-backend/internal/api"
	"github.com/staffdir/staffdir-backend/internal/config"
	"github.com/staffdir/staffdir-backend/internal/log"
	"github.com/staffdir/staffdir-backend/internal/metrics"
	"github.com/staffdir/staffdir-backend/internal/presets"
	"github.com/staffdir/staffdir-backend/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := log.NewSugar(cfg.Env, cfg.LogLevel, "staffdir-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting staff directory API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"data_file", cfg.Data.EmployeesFile,
	)

	// Setup metrics
	metricsObj, metricsHandler, err := metrics.Setup("staffdir-api")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	// Load the employee snapshot up front so a broken data file fails fast.
	source := store.NewFileSource(cfg.Data.EmployeesFile, logger, metricsObj)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := source.Snapshot(ctx); err != nil {
		logger.Fatalw("Failed to load employee data", "error", err)
	}
	logger.Infow("Employee data loaded")

	// Create context for background services
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()

	if cfg.Data.WatchDataFile {
		if err := source.Watch(watchCtx); err != nil {
			logger.Warnw("Data file watching disabled", "error", err)
		}
	}

	// Setup result cache (Redis with in-memory fallback)
	cache, err := store.NewCache(cfg.Cache.RedisAddr, logger, metricsObj)
	if err != nil {
		logger.Fatalw("Failed to setup cache", "error", err)
	}
	defer cache.Close()

	// Setup preset repository
	presetRepo := presets.NewRepository(cfg.Data.PresetsFile, logger)

	// Setup API handler and middleware
	handler := api.NewHandler(source, presetRepo, cache, cfg, logger, metricsObj)
	middleware := api.NewMiddleware(logger, metricsObj)

	// Create router with middleware and routes - pass security config to Routes
	router := handler.Routes(middleware, cfg.Security.CORSAllowedOrigins, cfg.Security.RateLimitRPM)

	logger.Infow("CORS configured", "allowed_origins", cfg.Security.CORSAllowedOrigins)

	// Add metrics endpoint
	router.Handle("/metrics", metricsHandler)

	// Setup HTTP server
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatalw("Server startup failed", "error", err)
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		logger.Infow("Server stopped")
	}
}
