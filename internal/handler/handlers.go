package handler

import (
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Feed      *FeedHandler
	Subscribe *SubscribeHandler
	Post      *PostHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s, services),
		OpenAPI:   NewOpenAPIHandler(s),
		Feed:      NewFeedHandler(s, services.Feed),
		Subscribe: NewSubscribeHandler(s, services.Subscribe),
		Post:      NewPostHandler(s, services.Post),
	}
}
