package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadgenius_backend/internal/adapters/storage"
	"leadgenius_backend/internal/analyses"
	"leadgenius_backend/internal/leads/client"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/internal/scheduler"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}
	if cfg.GetAnalysesStore() == config.StoreMemory {
		log.Warn("ANALYSES_STORE is memory; archive jobs cannot see analyses saved by the API")
	}

	var opened *analyses.OpenedStore
	if err := withRetry(ctx, log, "analyses store", 5, 2*time.Second, func() error {
		s, err := analyses.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		opened = s
		return nil
	}); err != nil {
		log.Error("failed to open analyses store", "error", err)
		panic("failed to open analyses store: " + err.Error())
	}
	defer opened.Close()

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	bucket := cfg.GetMinioBucketReports()
	if err := withRetry(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "reportsBucket", bucket)

	renderer := report.NewRenderer(report.WithPDFEngine(cfg.GetReportPDFEngine()))
	archiver := scheduler.NewArchiver(opened.Store, renderer, storageSvc, bucket, log)

	if cfg.GetTrainSchedule() != "" {
		retrainer, err := scheduler.NewRetrainer(cfg, client.New(cfg, log), log)
		if err != nil {
			log.Error("failed to initialize retrainer", "error", err)
			panic("failed to initialize retrainer: " + err.Error())
		}
		go retrainer.Run(ctx)
	}

	worker, err := scheduler.NewWorker(cfg, archiver, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
