package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/weather-app/weather-pipeline/internal/aggapi"
	"github.com/weather-app/weather-pipeline/internal/cache"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/middleware"
	"github.com/weather-app/weather-pipeline/internal/scheduler"
	"github.com/weather-app/weather-pipeline/internal/upstream"
)

// AggApp wires the aggregation service: a Redis-cached client for the
// storage service plus the daily/rolling presentation layer on top.
type AggApp struct {
	config      *config.Config
	logger      logger.Logger
	resultCache cache.ResultCache
	upstream    *upstream.Client
	scheduler   *scheduler.CronScheduler
	apiServer   *aggapi.Server
}

func BootstrapAgg() {
	cfg, err := config.Load("weather-agg")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", cfg.App.Name)
	appLogger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	app := &AggApp{
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

func (a *AggApp) initComponents() error {
	a.logger.Info("Initializing components...")

	a.logger.Info("Initializing Redis result cache...")
	resultCache, err := cache.NewRedisResultCache(a.config.Redis, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create result cache: %w", err)
	}
	a.resultCache = resultCache

	a.logger.Info("Initializing storage service client...")
	a.upstream = upstream.NewClient(a.config.Upstream, a.resultCache, a.config.Cache.ResultTTL, a.logger)

	a.logger.Info("Initializing scheduler...")
	a.scheduler = scheduler.NewCronScheduler(a.config.HealthCheck.Timeout, a.logger)

	a.logger.Info("Initializing API server...")
	mw := middleware.New(
		a.config.API.RateLimit,
		a.config.API.RateLimitWindow,
		a.config.API.CorsAllowedOrigins,
		a.logger,
	)
	handler := aggapi.NewHandler(a.upstream, a.logger)
	a.apiServer = aggapi.NewServer(handler, mw, a.config, a.logger)

	a.logger.Info("All components initialized successfully")
	return nil
}

func (a *AggApp) start() error {
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

func (a *AggApp) setupHealthChecks() error {
	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"result_cache", a.resultCache.HealthCheck},
		{"storage_service", a.upstream.HealthCheck},
		{"scheduler", a.scheduler.HealthCheck},
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

func (a *AggApp) waitForShutdown() {
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

	if a.resultCache != nil {
		a.logger.Info("Closing result cache...")
		if err := a.resultCache.Close(); err != nil {
			a.logger.Errorf("Failed to close result cache: %v", err)
		}
	}

	a.logger.Info("Application shutdown completed")
}
