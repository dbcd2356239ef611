package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/itdesk/extract-service/internal/adapters/primary/http"
	mw "github.com/itdesk/extract-service/internal/adapters/primary/http/middleware"
	"github.com/itdesk/extract-service/internal/adapters/primary/websocket"
	"github.com/itdesk/extract-service/internal/adapters/secondary/postgres"
	"github.com/itdesk/extract-service/internal/auth"
	"github.com/itdesk/extract-service/internal/config"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
	"github.com/itdesk/extract-service/internal/core/services"
	"github.com/itdesk/extract-service/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Initialize Rate Limiters
	var generalRateLimiter, exportRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		exportRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.ExportRPS,
			BurstSize:         cfg.RateLimit.ExportBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Sources (Secondary Adapters)
	ticketSource := postgres.NewTicketSource(pool)
	categorySource := postgres.NewCategorySource(pool)

	// Services (Core)
	extractService := services.NewExtractService(
		ticketSource,
		categorySource,
		hub,
		cfg.Snapshot.TicketLimit,
		logger,
	)
	dashboardService := services.NewDashboardService(extractService, logger)

	// Load the initial snapshot before accepting traffic.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Snapshot.LoadTimeout)
	info, err := extractService.Refresh(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Error("initial snapshot load failed", "error", err)
		os.Exit(1)
	}
	logger.Info("initial snapshot loaded", "tickets", info.TicketCount)

	// Handlers (Primary Adapters)
	extractHandler := httpAdapter.NewExtractHandler(extractService, errorHandler, logger)
	dashboardHandler := httpAdapter.NewDashboardHandler(dashboardService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, httpAdapter.SnapshotStatusFunc(func() (int, time.Time, bool) {
		snap, ok := extractService.Snapshot()
		return snap.TicketCount, snap.LoadedAt, ok
	}), cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Unmatched routes get the standard error envelope
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errorHandler.Handle(w, req, apperrors.ErrNotFound)
	})

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Use(mw.RequireAdminAccess)

			r.Route("/extract", func(r chi.Router) {
				r.Get("/columns", extractHandler.HandleColumns)
				r.Get("/facets", extractHandler.HandleFacets)
				r.Post("/query", extractHandler.HandleQuery)
				r.Post("/refresh", extractHandler.HandleRefresh)

				// CSV export renders the whole filtered snapshot, so it
				// gets its own stricter limiter.
				r.Group(func(r chi.Router) {
					if exportRateLimiter != nil {
						r.Use(exportRateLimiter.Middleware)
					}
					r.Post("/export", extractHandler.HandleExport)
				})
			})

			r.Route("/dashboard", dashboardHandler.RegisterRoutes)
		})
	})

	// 8. Background snapshot refresh
	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		ticker := time.NewTicker(cfg.Snapshot.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				loadCtx, cancel := context.WithTimeout(refreshCtx, cfg.Snapshot.LoadTimeout)
				if _, err := extractService.Refresh(loadCtx); err != nil {
					logger.Error("background snapshot refresh failed", "error", err)
				}
				cancel()
			}
		}
	}()

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received",
		"signal", sig.String(),
		"websocket_clients", hub.GetClientCount(),
	)

	cancelRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
