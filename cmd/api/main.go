package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadgenius_backend/internal/analyses"
	apphttp "leadgenius_backend/internal/http"
	"leadgenius_backend/internal/http/router"
	"leadgenius_backend/internal/leads"
	"leadgenius_backend/internal/scheduler"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/eventbus"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var opened *analyses.OpenedStore
	if err := withRetry(ctx, log, "analyses store", 5, 2*time.Second, func() error {
		s, err := analyses.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		opened = s
		return nil
	}); err != nil {
		log.Error("failed to open analyses store", "error", err, "store", cfg.GetAnalysesStore())
		panic("failed to open analyses store: " + err.Error())
	}
	defer opened.Close()
	log.Info("analyses store ready", "store", cfg.GetAnalysesStore())

	// Event bus for decoupled communication between modules
	eventBus := eventbus.NewInMemoryBus(log)

	if closeScheduler := initArchiveScheduler(cfg, eventBus, log); closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(eventBus, val, cfg, log)
	analysesModule := analyses.NewModule(opened.Store, eventBus, leadsModule.Renderer(), val, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   opened.Health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			analysesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, waiting for event handlers")
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initArchiveScheduler enqueues a report archive job for every saved
// analysis when Redis is configured.
func initArchiveScheduler(cfg config.SchedulerConfig, eventBus eventbus.Bus, log *logger.Logger) func() {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; report archiving disabled")
		return nil
	}

	archiveClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize report archive client", "error", err)
		return nil
	}
	scheduler.RegisterHandlers(eventBus, archiveClient)

	return func() {
		_ = archiveClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
