package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/logger"

	"github.com/robfig/cron/v3"
)

const defaultTrainTimeout = 10 * time.Minute

// Trainer triggers a retraining run on the scoring backend.
type Trainer interface {
	Train(ctx context.Context, dataset domain.DatasetType, model string) (json.RawMessage, error)
}

// Retrainer periodically asks the scoring backend to retrain a model.
type Retrainer struct {
	schedule cron.Schedule
	trainer  Trainer
	dataset  domain.DatasetType
	model    string
	timeout  time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func NewRetrainer(cfg config.TrainingConfig, trainer Trainer, log *logger.Logger) (*Retrainer, error) {
	expr := cfg.GetTrainSchedule()
	if expr == "" {
		return nil, fmt.Errorf("train schedule not configured")
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse train schedule %q: %w", expr, err)
	}

	dataset, ok := domain.ParseDatasetType(cfg.GetTrainDatasetType())
	if !ok {
		return nil, fmt.Errorf("unknown train dataset type %q", cfg.GetTrainDatasetType())
	}
	model := cfg.GetTrainModelType()
	if model == "" {
		model = domain.ModelRandomForest
	}

	return &Retrainer{
		schedule: schedule,
		trainer:  trainer,
		dataset:  dataset,
		model:    model,
		timeout:  defaultTrainTimeout,
		now:      time.Now,
		log:      log,
	}, nil
}

// Next returns the first run after t.
func (r *Retrainer) Next(t time.Time) time.Time {
	return r.schedule.Next(t)
}

func (r *Retrainer) Run(ctx context.Context) {
	if r == nil {
		return
	}

	for {
		now := r.now()
		next := r.schedule.Next(now)
		r.log.Info("next model retrain scheduled", "at", next, "datasetType", r.dataset, "modelType", r.model)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.trigger(ctx)
		}
	}
}

func (r *Retrainer) trigger(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	out, err := r.trainer.Train(ctx, r.dataset, r.model)
	if err != nil {
		r.log.Warn("model retrain failed", "error", err, "datasetType", r.dataset, "modelType", r.model)
		return
	}
	r.log.Info("model retrain finished",
		"datasetType", r.dataset,
		"modelType", r.model,
		"duration", r.now().Sub(start),
		"response", string(out),
	)
}
