package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles the signup endpoint per client IP and
// records every rejection.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the per-IP limiter, or a pass-through when rate limiting is
// disabled.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled || cfg.Rate <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	retryAfter := int(math.Ceil(1 / cfg.Rate))

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.Rate),
			Burst:     cfg.Burst,
			ExpiresIn: cfg.ExpiresIn,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify client", false, nil, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("identifier", identifier).Msg("rate limit exceeded")

			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return errs.NewTooManyRequestsError(retryAfter)
		},
	})
}

// RecordRateLimitHit counts a rejection in Prometheus and New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	r.server.Metrics.RecordRateLimitHit(endpoint)
	r.server.LoggerService.RecordEvent("RateLimitHit", map[string]interface{}{
		"endpoint":    endpoint,
		"status":      http.StatusTooManyRequests,
		"environment": r.server.Config.Primary.Env,
	})
}
