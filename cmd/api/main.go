package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/config"
	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/handler"
	"github.com/dafibh/budgetking/budgetking-backend/internal/middleware"
	"github.com/dafibh/budgetking/budgetking-backend/internal/repository/postgres"
	"github.com/dafibh/budgetking/budgetking-backend/internal/repository/snapshot"
	"github.com/dafibh/budgetking/budgetking-backend/internal/repository/storage"
	"github.com/dafibh/budgetking/budgetking-backend/internal/service"
	"github.com/dafibh/budgetking/budgetking-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Open the document store
	store, closeStore, err := openDocumentStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open document store")
	}
	defer closeStore()

	// Initialize repositories
	snapshotRepo := snapshot.NewRepository(store)

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	setupService := service.NewBudgetSetupService(snapshotRepo)
	setupService.SetEventPublisher(hub)
	actualsService := service.NewActualsService(snapshotRepo, snapshotRepo, cfg.ActualsFormat)
	actualsService.SetEventPublisher(hub)
	reportService := service.NewReportService(snapshotRepo)

	// Start the month rollover worker
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	var rolloverWorker *service.RolloverWorker
	if cfg.RolloverInterval > 0 {
		rolloverWorker = service.NewRolloverWorker(actualsService, log.Logger, cfg.RolloverInterval)
		rolloverWorker.Start(workerCtx)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(cfg.StorageBackend)
	budgetHandler := handler.NewBudgetHandler(setupService)
	actualsHandler := handler.NewActualsHandler(actualsService)
	reportHandler := handler.NewReportHandler(reportService, cfg.Theme)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Rate limiter
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-client rate limiting
	e.Use(middleware.RateLimitMiddlewareExcept(rateLimiter, "/health", "/ws"))

	// Register routes
	handler.RegisterRoutes(e, healthHandler, budgetHandler, actualsHandler, reportHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.StorageBackend).
			Str("actuals_format", string(cfg.ActualsFormat)).
			Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if rolloverWorker != nil {
		rolloverWorker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openDocumentStore builds the configured storage backend; the returned func releases it
func openDocumentStore(ctx context.Context, cfg *config.Config) (domain.DocumentStore, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.StorageFile:
		store, err := storage.NewFileBlobStore(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("data_dir", store.Root()).Msg("Using file document store")
		return store, noop, nil

	case config.StorageS3:
		store, err := storage.NewS3BlobStore(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Str("prefix", cfg.S3.Prefix).Msg("Using S3 document store")
		return store, noop, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping database: %w", err)
		}
		repo := postgres.NewDocumentRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("migrate documents table: %w", err)
		}
		log.Info().Msg("Connected to database")
		return repo, pool.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
