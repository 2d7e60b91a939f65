// Package router provides support assistant routing.
package router

import (
	"errors"
	"net/http"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/internal/assistant/handler"
	"github.com/kart-io/support-assistant/pkg/infra/server"
)

// Register registers the support assistant routes.
func Register(mgr *server.Manager, h *handler.AssistantHandler) error {
	if h == nil {
		return errors.New("assistant handler is required")
	}
	logger.Info("Registering support assistant routes...")

	httpServer := mgr.HTTPServer()
	if httpServer == nil {
		return errors.New("http server is not configured")
	}
	engine := httpServer.Engine()

	api := engine.Group("/api")
	{
		api.Handle(http.MethodPost, "/answer", h.Answer)
		api.Handle(http.MethodPost, "/clear-conversation", h.Clear)
		api.Handle(http.MethodGet, "/health", h.Health)
		api.Handle(http.MethodGet, "/stats", h.Stats)
	}

	engine.GET("/metrics", h.Metrics)

	logger.Info("HTTP routes registered")
	return nil
}
