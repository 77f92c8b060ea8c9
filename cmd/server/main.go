package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"fleet/internal/app"
	"fleet/internal/auth"
	"fleet/internal/config"
	"fleet/internal/handler"
	"fleet/internal/logger"
	"fleet/internal/middleware"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository/postgres"
	"fleet/internal/service"
	"fleet/internal/socket"
	"fleet/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logrus.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logrus.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logrus.Info("connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	logrus.Info("connected to Redis")

	var uploader service.ImageUploader
	if cfg.Storage.Enabled() {
		s3Uploader, err := storage.NewUploader(ctx, cfg.Storage)
		if err != nil {
			logrus.WithError(err).Fatal("failed to configure S3")
		}
		uploader = s3Uploader
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := wireServer(runCtx, db, redisClient, nrApp, uploader, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to wire server")
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-runCtx.Done()
	logrus.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
		os.Exit(1)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logrus.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	ctx context.Context,
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	uploader service.ImageUploader,
	cfg *config.Config,
) (*http.Server, error) {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	truckCache := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	repos := postgres.NewRepositories(db)
	transactor := postgres.NewTransactor(db)
	stats := postgres.NewStatsRepository(db)

	jwtManager := auth.NewJWTManager(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	// Services.
	hub := socket.NewHub()
	notificationService := service.NewNotificationService(hub)
	userService := service.NewUserService(repos.Users, uploader)
	authService := service.NewAuthService(transactor, repos, userService, jwtManager, cfg.Auth.RotateRefresh)
	truckService := service.NewTruckService(repos.Trucks, truckCache)
	trailerService := service.NewTrailerService(repos.Trailers)
	tireService := service.NewTireService(repos.Tires, repos.Trucks, cfg.Fleet.TireCriticalWear)
	assetService := service.NewAssetService(transactor, truckCache)
	maintenanceService := service.NewMaintenanceService(transactor, repos, stats, truckCache, notificationService)
	fuelService := service.NewFuelService(repos.FuelLogs, repos.Trips, stats)
	tripService := service.NewTripService(transactor, repos, lockStore, truckCache, notificationService)

	if cfg.Admin.Enabled() {
		if err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName); err != nil {
			return nil, err
		}
	}

	authLimiter := middleware.NewRateLimiter(cfg.Auth.RateLimitRequests, cfg.Auth.RateLimitWindow)
	go authLimiter.CleanupOldLimiters(ctx, 10*time.Minute)

	router := app.NewRouter(app.RouterDeps{
		AuthHandler:        handler.NewAuthHandler(authService, cfg.Auth.CookieMaxAge),
		TruckHandler:       handler.NewTruckHandler(truckService, assetService),
		TrailerHandler:     handler.NewTrailerHandler(trailerService, assetService),
		TireHandler:        handler.NewTireHandler(tireService, assetService),
		MaintenanceHandler: handler.NewMaintenanceHandler(maintenanceService),
		FuelHandler:        handler.NewFuelHandler(fuelService),
		TripHandler:        handler.NewTripHandler(tripService),
		UserHandler:        handler.NewUserHandler(userService),
		WebSocketHandler:   handler.NewWebSocketHandler(hub, jwtManager, cfg.Server.AllowedOrigins),
		TokenValidator:     jwtManager,
		AuthLimiter:        authLimiter,
		RedisClient:        redisClient,
		NewRelicApp:        nrApp,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
