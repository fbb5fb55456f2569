package handler

import (
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/service"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the newsletter feed proxies.
type FeedHandler struct {
	Handler
	feedService *service.FeedService
}

func NewFeedHandler(s *server.Server, feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		Handler:     NewHandler(s),
		feedService: feedService,
	}
}

// GetBeehiivFeed returns the latest journal entries from Beehiiv.
func (h *FeedHandler) GetBeehiivFeed(c echo.Context, req *model.GetFeedRequest) (*model.FeedResponse, error) {
	return h.feedService.Beehiiv(c.Request().Context(), req.Limit)
}

// GetKitFeed returns the posts scraped from the public Kit page.
func (h *FeedHandler) GetKitFeed(c echo.Context, req *model.GetFeedRequest) (*model.FeedResponse, error) {
	return h.feedService.Kit(c.Request().Context(), req.Limit)
}
