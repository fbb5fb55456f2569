package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/operator-journal/internal/config"
	"github.com/deppfellow/operator-journal/internal/lib/email"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// InitHandlers builds the dependencies the task handlers use.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.emailClient = email.NewClient(cfg, logger)
}

func (j *JobService) handleSubscriberNotifyTask(ctx context.Context, t *asynq.Task) error {
	var p SubscriberNotifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal subscriber notify payload: %w", err)
	}

	if j.emailClient == nil {
		return fmt.Errorf("%w: email client not initialized", asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", "subscriber_notify").
		Str("subscriber", p.Email).
		Msg("Processing subscriber notification")

	err := j.emailClient.SendNewSubscriberEmail(j.ownerEmail, p.Email, newsletter.FormatISO(p.SubscribedAt))
	if err != nil {
		j.logger.Error().
			Str("type", "subscriber_notify").
			Str("subscriber", p.Email).
			Err(err).
			Msg("Failed to send subscriber notification")
		return err
	}

	j.logger.Info().
		Str("type", "subscriber_notify").
		Str("subscriber", p.Email).
		Msg("Sent subscriber notification")

	return nil
}
