// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: the HTTP side enqueues tasks with
// asynq.Client and an in-process asynq.Server runs the workers.
package job

import (
	"context"

	"github.com/deppfellow/operator-journal/internal/config"
	"github.com/deppfellow/operator-journal/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server      *asynq.Server
	logger      *zerolog.Logger
	emailClient *email.Client
	ownerEmail  string
}

// NewJobService creates a JobService using the cache Redis instance.
//
// The site only has one low-priority task, so the worker pool is small.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Cache.RedisAddress}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
		},
	)

	return &JobService{
		Client:     client,
		server:     server,
		logger:     logger,
		ownerEmail: cfg.Notify.OwnerEmail,
	}
}

// Start registers task handlers and starts the workers. It does not block.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSubscriberNotify, j.handleSubscriberNotifyTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop waits for running tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}

// EnqueueSubscriberNotify schedules the owner notification for email.
func (j *JobService) EnqueueSubscriberNotify(ctx context.Context, subscriber string) error {
	task, err := NewSubscriberNotifyTask(subscriber)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued subscriber notification")

	return nil
}
