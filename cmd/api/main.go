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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/lorrc/testing-insight/internal/adapters/primary/http"
	mw "github.com/lorrc/testing-insight/internal/adapters/primary/http/middleware"
	"github.com/lorrc/testing-insight/internal/adapters/primary/websocket"
	"github.com/lorrc/testing-insight/internal/adapters/secondary/cache"
	"github.com/lorrc/testing-insight/internal/adapters/secondary/loader"
	"github.com/lorrc/testing-insight/internal/adapters/secondary/postgres"
	"github.com/lorrc/testing-insight/internal/adapters/secondary/source"
	"github.com/lorrc/testing-insight/internal/auth"
	"github.com/lorrc/testing-insight/internal/config"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
	"github.com/lorrc/testing-insight/internal/core/services"
	"github.com/lorrc/testing-insight/internal/infrastructure/logging"
	"github.com/lorrc/testing-insight/internal/infrastructure/metrics"
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
		"source", cfg.Source.Kind,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// 3. Data source, wrapped with retries and a circuit breaker
	fileSource, err := newFileSource(ctx, cfg, m, logger)
	if err != nil {
		logger.Error("failed to initialize data source", "error", err)
		os.Exit(1)
	}

	// 4. Result cache: Redis when configured, in-process otherwise
	resultCache, cacheCheck := newResultCache(ctx, cfg, logger)
	if closer, ok := resultCache.(interface{ Close() }); ok {
		defer closer.Close()
	}

	// 5. Optional database for saved views
	var pool *pgxpool.Pool
	if cfg.SavedViewsEnabled() {
		pool, err = newDatabasePool(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	// 6. Security & Real-time Components
	var tokenManager *auth.TokenManager
	if cfg.AuthEnabled() {
		tokenManager = auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	} else {
		logger.Warn("JWT_SECRET is not set; the API is open to anonymous viewers")
	}
	hub := websocket.NewHub(m, logger)
	go hub.Run(ctx)

	// 7. Rate Limiters
	var generalRateLimiter, reloadRateLimiter *mw.RateLimiter
	var reloadLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		reloadRateLimiter = mw.NewRateLimiter(mw.ReloadRateLimiterConfig(cfg.RateLimit.ReloadRPS, cfg.RateLimit.ReloadBurst))
		defer reloadRateLimiter.Stop()
		reloadLimit = reloadRateLimiter.Middleware
	}

	// 8. Dependency Injection (Wiring the Hexagon)
	settings := services.Settings{
		Categories: domain.StatusCategories{
			Resolved: cfg.Dashboard.StatusResolved,
			Invalid:  cfg.Dashboard.StatusInvalid,
			Reopen:   cfg.Dashboard.StatusReopen,
		},
		HotCommentThreshold: cfg.Dashboard.HotCommentThreshold,
		TicketsPerPage:      cfg.Dashboard.TicketsPerPage,
		QuickFilters:        cfg.Dashboard.QuickFilters,
		BrowseURL:           cfg.Dashboard.BrowseURL,
		Location:            cfg.Dashboard.Location(),
		CacheTTL:            cfg.Cache.TTL,
	}

	datasetService := services.NewDatasetService(
		fileSource,
		loader.NewTicketCSVLoader(),
		loader.NewExecutionExcelLoader(),
		hub,
		m,
		services.DatasetFiles{Tickets: cfg.Source.TicketsFile, Executions: cfg.Source.ExecutionsFile},
		logger,
	)
	dashboardService := services.NewDashboardService(datasetService, resultCache, m, settings, logger)
	ticketService := services.NewTicketService(datasetService, settings, logger)
	executionService := services.NewExecutionService(datasetService, logger)

	errorHandler := httpAdapter.NewErrorHandler(logger)
	filterHandler := httpAdapter.NewFilterHandler(dashboardService, errorHandler, logger)
	dashboardHandler := httpAdapter.NewDashboardHandler(dashboardService, errorHandler, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, errorHandler, logger)
	executionHandler := httpAdapter.NewExecutionHandler(executionService, errorHandler, logger)
	datasetHandler := httpAdapter.NewDatasetHandler(datasetService, reloadLimit, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)

	var viewHandler *httpAdapter.ViewHandler
	if pool != nil {
		viewService := services.NewSavedViewService(postgres.NewSavedViewRepository(pool))
		viewHandler = httpAdapter.NewViewHandler(viewService, errorHandler, logger)
	}

	healthHandler := httpAdapter.NewHealthHandler(cfg.App.Version).
		AddCheck("source", httpAdapter.HealthCheckFunc(func(ctx context.Context) error {
			_, err := fileSource.List(ctx)
			return err
		}), false).
		AddCheck("cache", cacheCheck, false)
	if pool != nil {
		healthHandler.AddCheck("database", pool, true)
	}

	// 9. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger, m))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Probes and metrics (outside /api/v1 for standard paths)
	r.Route("/health", healthHandler.RegisterRoutes)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket route (authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			if tokenManager != nil {
				r.Use(mw.JWTMiddleware(tokenManager))
			}
			r.Route("/filters", filterHandler.RegisterRoutes)
			r.Route("/dashboard", dashboardHandler.RegisterRoutes)
			r.Route("/tickets", ticketHandler.RegisterRoutes)
			r.Route("/executions", executionHandler.RegisterRoutes)
			r.Route("/datasets", datasetHandler.RegisterRoutes)
			if viewHandler != nil {
				r.Route("/views", viewHandler.RegisterRoutes)
			}
		})
	})

	// 10. Start Server with Graceful Shutdown
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

	// Warm the memo so the first page view does not pay for the download.
	go func() {
		if _, err := datasetService.Tickets(ctx); err != nil {
			logger.Warn("initial ticket load failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	stop()

	logger.Info("server shutdown complete")
}

func newFileSource(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (ports.FileSource, error) {
	var next ports.FileSource
	switch cfg.Source.Kind {
	case config.SourceDrive:
		drive, err := source.NewDriveSource(ctx, cfg.Source.DriveCredentialsFile, cfg.Source.DriveFolderID)
		if err != nil {
			return nil, err
		}
		next = drive
	default:
		next = source.NewLocalSource(cfg.Source.Dir)
	}

	rc := source.DefaultResilienceConfig(cfg.Source.Kind)
	rc.Attempts = cfg.Source.RetryAttempts
	rc.AttemptTimeout = cfg.Source.AttemptTimeout
	rc.FailureThreshold = cfg.Source.BreakerFailures
	rc.OpenTimeout = cfg.Source.BreakerOpenTimeout
	return source.NewResilientSource(next, rc, m, logger), nil
}

// newResultCache prefers Redis and falls back to memory when it is not
// configured or unreachable. The returned checker is nil for memory.
func newResultCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ResultCache, httpAdapter.HealthChecker) {
	if cfg.Cache.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err == nil {
			logger.Info("using redis result cache", "addr", cfg.Cache.RedisAddr)
			rc := cache.NewRedisCache(rdb)
			return rc, rc
		}
		logger.Warn("redis unavailable, using in-memory result cache", "error", err)
	}
	return cache.NewMemoryCache(time.Minute), nil
}

func newDatabasePool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if err := postgres.Migrate(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
		return nil, err
	}
	logger.Info("database migrations applied")

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("database connection established")
	return pool, nil
}
