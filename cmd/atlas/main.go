package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-stays/atlas-stays/internal/app"
	"github.com/atlas-stays/atlas-stays/internal/auth"
	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/booking/reservations"
	"github.com/atlas-stays/atlas-stays/internal/catalog/cities"
	"github.com/atlas-stays/atlas-stays/internal/catalog/hotels"
	"github.com/atlas-stays/atlas-stays/internal/catalog/trips"
	"github.com/atlas-stays/atlas-stays/internal/dashboard"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/media/heroimages"
	"github.com/atlas-stays/atlas-stays/internal/platform/cache"
	"github.com/atlas-stays/atlas-stays/internal/platform/db"
	"github.com/atlas-stays/atlas-stays/internal/shared"
	"github.com/atlas-stays/atlas-stays/internal/users"
	"github.com/atlas-stays/atlas-stays/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "atlas_session", cfg.SessionTTL, cfg.IsProduction())

	dashboardCache := dashboard.NewCache(redisClient, cfg.CacheTTL)
	dashboardRepo := dashboard.NewRepository(pool)
	dashboardService := dashboard.NewService(dashboardRepo, dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	notifier := lifecycle.NewNotifier(dashboardCache, logger, dashboard.InvalidationRules())

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	registry := authz.NewRegistry()
	cities.Register(registry, cities.NewRepository(pool), notifier)
	hotels.Register(registry, hotels.NewRepository(pool), notifier)
	trips.Register(registry, trips.NewRepository(pool), notifier)
	reservations.Register(registry, reservations.NewRepository(pool), notifier, jobClient, logger)
	heroimages.Register(registry, heroimages.NewRepository(pool), notifier)
	users.Register(registry, users.NewRepository(pool), notifier)
	registry.Seal()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		AuthHandler:         authHandler,
		CitiesHandler:       cities.NewHandler(logger, registry),
		HotelsHandler:       hotels.NewHandler(logger, registry),
		TripsHandler:        trips.NewHandler(logger, registry),
		ReservationsHandler: reservations.NewHandler(logger, registry),
		HeroImagesHandler:   heroimages.NewHandler(logger, registry),
		UsersHandler:        users.NewHandler(logger, registry),
		DashboardHandler:    dashboardHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
