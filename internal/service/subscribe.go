package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/metrics"
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/upstreamerr"
	"github.com/rs/zerolog"
)

// SubscribeService relays newsletter sign-ups to Kit.
type SubscribeService struct {
	kit      KitSubscriber
	notifier SubscriberNotifier
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

// NewSubscribeService builds the service. notifier may be nil.
func NewSubscribeService(kit KitSubscriber, notifier SubscriberNotifier, m *metrics.Metrics, logger *zerolog.Logger) *SubscribeService {
	return &SubscribeService{
		kit:      kit,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// NormalizeEmail trims the address and reports whether it looks like one.
func NormalizeEmail(email string) (string, bool) {
	email = strings.TrimSpace(email)
	return email, email != "" && strings.Contains(email, "@")
}

// Subscribe adds email to the Kit form.
//
// Every failure other than a bad address is a 500, because that is what
// the signup form has always been told.
func (s *SubscribeService) Subscribe(ctx context.Context, email string) (*model.SubscribeResponse, error) {
	email, ok := NormalizeEmail(email)
	if !ok {
		return nil, errs.NewBadRequestError("Invalid email", true, nil, nil, nil)
	}

	start := time.Now()
	err := s.kit.Subscribe(ctx, email)
	elapsed := time.Since(start)

	if err != nil {
		return nil, s.subscribeError(err, elapsed)
	}

	s.metrics.ObserveUpstream(newsletter.ProviderKit, metrics.OutcomeSuccess, elapsed.Seconds())
	s.logger.Info().Str("event", "newsletter_subscribed").Msg("subscriber added")

	if s.notifier != nil {
		if err := s.notifier.EnqueueSubscriberNotify(ctx, email); err != nil {
			s.logger.Error().Err(err).Msg("failed to enqueue subscriber notification")
		}
	}

	return &model.SubscribeResponse{OK: true}, nil
}

func (s *SubscribeService) subscribeError(err error, elapsed time.Duration) error {
	var cfgErr *newsletter.ConfigError
	if errors.As(err, &cfgErr) {
		s.logger.Error().Err(err).Msg("kit subscribe not configured")
		return errs.NewServerError("Missing server config", nil)
	}

	s.metrics.ObserveUpstream(newsletter.ProviderKit, metrics.OutcomeError, elapsed.Seconds())
	kind, _ := upstreamerr.Classify(err)
	s.logger.Error().
		Err(err).
		Str("kind", string(kind)).
		Dur("duration", elapsed).
		Msg("kit subscribe failed")

	var statusErr *newsletter.UpstreamStatusError
	if errors.As(err, &statusErr) {
		return errs.NewServerError("Kit request failed", nil).WithDetails(statusErr.Body)
	}

	return errs.NewServerError("Server error", nil)
}
