package scheduler

import (
	"context"
	"errors"
	"fmt"

	"leadgenius_backend/internal/events"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/db"
	"leadgenius_backend/platform/eventbus"

	"github.com/hibiken/asynq"
)

const (
	defaultQueue      = "default"
	archiveMaxRetries = 5
)

type Client struct {
	client *asynq.Client
	queue  string
}

// ReportArchiver enqueues report archive jobs.
type ReportArchiver interface {
	EnqueueReportArchive(ctx context.Context, payload ReportArchivePayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueReportArchive schedules archiving of a saved analysis. The task
// id is derived from the analysis id so duplicate events enqueue once.
func (c *Client) EnqueueReportArchive(ctx context.Context, payload ReportArchivePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewReportArchiveTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(archiveMaxRetries),
		asynq.TaskID(TaskReportArchive+":"+payload.AnalysisID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// RegisterHandlers subscribes the archiver to AnalysisSaved events.
func RegisterHandlers(bus eventbus.Bus, archiver ReportArchiver) {
	bus.Subscribe(events.NameAnalysisSaved, eventbus.HandlerFunc(func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.AnalysisSaved)
		if !ok {
			return nil
		}
		if err := archiver.EnqueueReportArchive(ctx, ReportArchivePayload{AnalysisID: e.AnalysisID.String()}); err != nil {
			return fmt.Errorf("enqueue report archive for %s: %w", e.AnalysisID, err)
		}
		return nil
	}))
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return defaultQueue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := db.RedisOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
