// backend-go/cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/analytics"
	"github.com/andresuchdata/allservice/backend-go/internal/api"
	"github.com/andresuchdata/allservice/backend-go/internal/cache"
	"github.com/andresuchdata/allservice/backend-go/internal/config"
	"github.com/andresuchdata/allservice/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/allservice/backend-go/internal/service"
	"github.com/andresuchdata/allservice/backend-go/internal/source"
	"github.com/andresuchdata/allservice/backend-go/internal/storage"
	"github.com/andresuchdata/allservice/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize record backend
	backend, closeBackend, err := newBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Source.Backend).Msg("Failed to initialize record backend")
	}
	defer closeBackend()

	summaryCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("Summary cache unavailable, continuing without it")
		summaryCache = cache.NewNoopDashboardCache()
	}

	// Initialize services
	src := source.New(backend, source.Options{
		PageSize:          cfg.Source.PageSize,
		LookupConcurrency: cfg.Source.LookupConcurrency,
	})
	segments := analytics.NewSegments(cfg.Reporting.Segments, cfg.Reporting.DefaultSegment)
	dashboardService := service.NewDashboardService(src, summaryCache, segments, time.Now)

	// Warm the collection; failures are recorded and retried on demand
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = dashboardService.Load(ctx, false)
	}()

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{DashboardService: dashboardService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Source.Backend).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// newBackend opens the configured record backend and returns its closer.
func newBackend(cfg *config.Config) (source.Backend, func(), error) {
	switch cfg.Source.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return postgres.NewServiceRepository(db), func() { _ = db.Close() }, nil
	case config.BackendSnapshot:
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return source.NewSnapshotBackend(client, cfg.Storage.SnapshotKey), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown source backend %q", cfg.Source.Backend)
	}
}
