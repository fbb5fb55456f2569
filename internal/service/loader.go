package service

import (
	"context"
	"time"

	"github.com/deppfellow/operator-journal/internal/metrics"
	"github.com/deppfellow/operator-journal/internal/repository"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/upstreamerr"
	"github.com/rs/zerolog"
)

// Loader reads through the feed cache and records every upstream call.
type Loader struct {
	cache         repository.FeedCache
	metrics       *metrics.Metrics
	logger        *zerolog.Logger
	slowThreshold time.Duration
}

// NewLoader builds a Loader from the server's metrics and logger.
func NewLoader(s *server.Server, cache repository.FeedCache) *Loader {
	l := &Loader{
		cache:   cache,
		metrics: s.Metrics,
		logger:  s.Logger,
	}
	if s.Config.Observability != nil {
		l.slowThreshold = s.Config.Observability.Logging.SlowUpstreamThreshold
	}
	return l
}

// load returns the cached value for key, or calls fetch and caches its
// result. Cache errors are logged and never returned.
func load[T any](ctx context.Context, l *Loader, key, provider string, fetch func(context.Context) (T, error)) (T, error) {
	var value T

	hit, err := l.cache.Get(ctx, key, &value)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("feed cache read failed")
	}
	if hit {
		l.metrics.ObserveUpstream(provider, metrics.OutcomeCached, 0)
		return value, nil
	}

	start := time.Now()
	value, err = fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		l.metrics.ObserveUpstream(provider, metrics.OutcomeError, elapsed.Seconds())
		kind, _ := upstreamerr.Classify(err)
		l.logger.Error().
			Err(err).
			Str("provider", provider).
			Str("kind", string(kind)).
			Dur("duration", elapsed).
			Msg("upstream fetch failed")
		return value, err
	}

	l.metrics.ObserveUpstream(provider, metrics.OutcomeSuccess, elapsed.Seconds())
	if l.slowThreshold > 0 && elapsed > l.slowThreshold {
		l.logger.Warn().
			Str("provider", provider).
			Dur("duration", elapsed).
			Msg("slow upstream fetch")
	}

	if err := l.cache.Set(ctx, key, value); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("feed cache write failed")
	}

	return value, nil
}
