package scheduler

import (
	"context"
	"fmt"

	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultConcurrency = 5

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	archiver *Archiver
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, archiver *Archiver, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		archiver: archiver,
		log:      log,
	}

	mux.HandleFunc(TaskReportArchive, w.handleReportArchive)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleReportArchive(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReportArchivePayload(task)
	if err != nil {
		return fmt.Errorf("decode archive payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.AnalysisID)
	if err != nil {
		return fmt.Errorf("invalid analysis id %q: %w", payload.AnalysisID, asynq.SkipRetry)
	}

	return w.archiver.Archive(ctx, id)
}
