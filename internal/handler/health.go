package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/operator-journal/internal/middleware"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its dependencies are usable.
type HealthHandler struct {
	Handler
	services *service.Services
}

func NewHealthHandler(s *server.Server, services *service.Services) *HealthHandler {
	return &HealthHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// CheckHealth returns 200 while the site can serve its endpoints and 503
// otherwise. Redis only caches, so a failing Redis marks the report
// "degraded" without failing it. Providers are reported as configured or
// not; they are never called from here.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if obs != nil && !obs.HealthChecks.Enabled {
		return c.JSON(http.StatusOK, response)
	}

	isHealthy := true

	checks["beehiiv"] = providerCheck(h.services.Beehiiv.Configured())
	checks["kit_feed"] = providerCheck(h.services.Kit.FeedConfigured())
	checks["kit_subscribe"] = providerCheck(h.services.Kit.SubscribeConfigured())
	checks["notifications"] = map[string]interface{}{"enabled": h.server.Job != nil}

	if h.server.Redis != nil && (obs == nil || obs.HasCheck("redis")) {
		timeout := 5 * time.Second
		if obs != nil && obs.HealthChecks.Timeout > 0 {
			timeout = obs.HealthChecks.Timeout
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		redisStart := time.Now()
		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}
			response["status"] = "degraded"

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check failed")

			h.server.LoggerService.RecordEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "redis",
				"operation":        "health_check",
				"error_type":       "redis_unhealthy",
				"response_time_ms": time.Since(redisStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}
		}
	}

	if !h.services.Beehiiv.Configured() && !h.services.Kit.FeedConfigured() {
		isHealthy = false
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.server.LoggerService.RecordEvent("HealthCheckError", map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "no_feed_configured",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func providerCheck(configured bool) map[string]interface{} {
	status := "configured"
	if !configured {
		status = "not_configured"
	}
	return map[string]interface{}{"status": status}
}
