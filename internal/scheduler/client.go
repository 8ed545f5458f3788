// Package scheduler enqueues and processes delayed jobs (appointment
// reminders) through asynq on Redis.
package scheduler

import (
	"context"
	"time"

	"crm_backend/platform/config"

	"github.com/hibiken/asynq"
)

// ReminderScheduler enqueues an appointment reminder to run at a given time.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, payload AppointmentReminderPayload, runAt time.Time) error
}

// Client enqueues scheduler tasks.
type Client struct {
	client *asynq.Client
}

// NewClient creates the asynq client for the configured Redis instance.
func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(redisClientOpt(cfg)),
	}
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) ScheduleAppointmentReminder(ctx context.Context, payload AppointmentReminderPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAppointmentReminderTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt))
	return err
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	}
}
