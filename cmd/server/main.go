package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	partnerapp "github.com/crm/backend/internal/application/partner"
	projectapp "github.com/crm/backend/internal/application/project"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	// Telemetry providers come first so the database spans have a home
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		_ = logsProvider.Shutdown(context.Background())
	}()
	log = logsProvider.Bridge(log, log.Level())

	// Statement logging for gorm
	gormLog := logger.NewQueryLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterGormTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		SlowQueryThresh: cfg.Database.SlowThreshold,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
		if err := persistence.SeedStatuses(ctx, db.DB); err != nil {
			log.Fatal("Failed to seed statuses", zap.Error(err))
		}
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("crm.business"))
	if err != nil {
		log.Warn("Business metrics disabled", zap.Error(err))
	}

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore, err = cache.NewIdempotencyStore(ctx, cfg.Idempotency, log)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		defer func() {
			_ = idempotencyStore.Close()
		}()
	}

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}
	registry, err := telemetry.NewPrometheusRegistry(sqlDB, cfg.Database.DBName,
		telemetry.NewRowCountCollector(persistence.RowCounters(db.DB))...)
	if err != nil {
		log.Fatal("Failed to initialize prometheus registry", zap.Error(err))
	}

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	statusRepo := persistence.NewGormStatusRepository(db.DB)

	// Initialize services
	customerService := partnerapp.NewCustomerService(customerRepo, projectRepo)
	customerService.SetBusinessMetrics(businessMetrics)
	addressService := partnerapp.NewAddressService(addressRepo, customerRepo)
	addressService.SetBusinessMetrics(businessMetrics)
	projectService := projectapp.NewProjectService(projectRepo, customerRepo)
	projectService.SetBusinessMetrics(businessMetrics)
	statusService := partnerapp.NewStatusService(statusRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.New(router.Handlers{
		Customer: handler.NewCustomerHandler(customerService),
		Address:  handler.NewAddressHandler(addressService),
		Project:  handler.NewProjectHandler(projectService),
		Status:   handler.NewStatusHandler(statusService),
		Health:   handler.NewHealthHandler(db),
	}, router.Options{
		Logger:      log,
		CORS:        corsConfig,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Metrics: middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
			Logger:        log,
		},
		Idempotency: middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		},
		Registry: registry,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
