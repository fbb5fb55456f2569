package handler

import (
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/service"
	"github.com/labstack/echo/v4"
)

type SubscribeHandler struct {
	Handler
	subscribeService *service.SubscribeService
}

func NewSubscribeHandler(s *server.Server, subscribeService *service.SubscribeService) *SubscribeHandler {
	return &SubscribeHandler{
		Handler:          NewHandler(s),
		subscribeService: subscribeService,
	}
}

// Subscribe forwards the signup form's address to Kit.
func (h *SubscribeHandler) Subscribe(c echo.Context, req *model.SubscribeRequest) (*model.SubscribeResponse, error) {
	return h.subscribeService.Subscribe(c.Request().Context(), req.Email)
}
