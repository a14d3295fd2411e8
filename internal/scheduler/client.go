package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/redisopt"

	"github.com/hibiken/asynq"
)

const (
	defaultQueue      = "default"
	outreachMaxRetry  = 5
	outreachRetention = 24 * time.Hour
)

type Client struct {
	client *asynq.Client
	queue  string
}

type OutreachScheduler interface {
	ScheduleLeadOutreach(ctx context.Context, payload LeadOutreachPayload, delay time.Duration) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisopt.Asynq(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
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

// ScheduleLeadOutreach enqueues the outreach task once per lead. A duplicate enqueue
// for the same lead is not an error.
func (c *Client) ScheduleLeadOutreach(ctx context.Context, payload LeadOutreachPayload, delay time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadOutreachTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessIn(delay),
		asynq.TaskID(TaskLeadOutreach+":"+payload.LeadID),
		asynq.MaxRetry(outreachMaxRetry),
		asynq.Retention(outreachRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue lead outreach: %w", err)
	}
	return nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return defaultQueue
}
