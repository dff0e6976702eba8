package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/weather-app/weather-pipeline/internal/api"
	"github.com/weather-app/weather-pipeline/internal/archive"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/database"
	"github.com/weather-app/weather-pipeline/internal/excel"
	"github.com/weather-app/weather-pipeline/internal/ingest"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/middleware"
	"github.com/weather-app/weather-pipeline/internal/scheduler"
)

// StoreApp wires the storage service: Postgres-backed ingestion, querying
// and export, with an optional Minio upload archive.
type StoreApp struct {
	config      *config.Config
	logger      logger.Logger
	weatherRepo database.WeatherRepository
	uploads     *archive.MinioArchive
	pipeline    *ingest.Pipeline
	scheduler   *scheduler.CronScheduler
	apiServer   *api.Server
}

func BootstrapStore() {
	cfg, err := config.Load("weather-store")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", cfg.App.Name)
	appLogger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	app := &StoreApp{
		config: cfg,
		logger: appLogger,
	}

	if err := app.initComponents(); err != nil {
		appLogger.Fatalf("Failed to initialize components: %v", err)
	}

	if err := app.start(); err != nil {
		appLogger.Fatalf("Failed to start application: %v", err)
	}

	app.waitForShutdown()
}

func (a *StoreApp) initComponents() error {
	a.logger.Info("Initializing components...")

	a.logger.Info("Initializing PostgreSQL repository...")
	weatherRepo, err := database.NewPostgresWeatherRepository(a.config.Postgres, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create weather repository: %w", err)
	}
	a.weatherRepo = weatherRepo

	var uploadArchive ingest.Archiver
	if a.config.Archive.Enabled {
		a.logger.Info("Initializing Minio upload archive...")
		minioArchive, err := archive.NewMinioArchive(a.config.Archive, a.logger)
		if err != nil {
			return fmt.Errorf("failed to create upload archive: %w", err)
		}
		a.uploads = minioArchive
		uploadArchive = minioArchive
	}

	a.logger.Info("Initializing ingestion pipeline...")
	a.pipeline = ingest.NewPipeline(a.weatherRepo, uploadArchive, a.logger)

	a.logger.Info("Initializing scheduler...")
	a.scheduler = scheduler.NewCronScheduler(a.config.HealthCheck.Timeout, a.logger)

	a.logger.Info("Initializing API server...")
	exporter := excel.NewGenerator(a.logger)
	mw := middleware.New(
		a.config.API.RateLimit,
		a.config.API.RateLimitWindow,
		a.config.API.CorsAllowedOrigins,
		a.logger,
	)
	handler := api.NewHandler(a.weatherRepo, a.pipeline, exporter, a.config.API.MaxUploadBytes, a.logger)
	a.apiServer = api.NewServer(handler, mw, a.config, a.logger)

	a.logger.Info("All components initialized successfully")
	return nil
}

func (a *StoreApp) start() error {
	a.logger.Info("Starting application...")

	if err := a.setupHealthChecks(); err != nil {
		return fmt.Errorf("failed to setup health checks: %w", err)
	}

	if err := a.apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	a.logger.Info("Application started successfully")
	return nil
}

func (a *StoreApp) setupHealthChecks() error {
	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"weather_repository", a.weatherRepo.HealthCheck},
		{"scheduler", a.scheduler.HealthCheck},
	}
	if a.uploads != nil {
		checks = append(checks, struct {
			name  string
			check func(context.Context) error
		}{"upload_archive", a.uploads.HealthCheck})
	}

	return a.scheduler.Schedule("health_checks", a.config.HealthCheck.Schedule,
		func(ctx context.Context) error {
			for _, check := range checks {
				if err := check.check(ctx); err != nil {
					a.logger.Errorf("Health check failed for %s: %v", check.name, err)
				} else {
					a.logger.Debugf("Health check passed for %s", check.name)
				}
			}
			return nil
		})
}

func (a *StoreApp) waitForShutdown() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	sig := <-signalChan
	a.logger.Infof("Received signal: %v. Shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), a.config.App.ShutdownTimeout)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Errorf("Failed to stop API server: %v", err)
		}
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.weatherRepo != nil {
		a.logger.Info("Closing weather repository...")
		if err := a.weatherRepo.Close(); err != nil {
			a.logger.Errorf("Failed to close weather repository: %v", err)
		}
	}

	a.logger.Info("Application shutdown completed")
}
