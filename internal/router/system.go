package router

import (
	"github.com/deppfellow/operator-journal/internal/handler"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the site:
// health, docs, doc assets and metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
}
