package handler

import (
	"net/http"

	"prolits/config"
	"prolits/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{service: cfg.Env.ServiceName}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Health{Status: "ok", Service: h.service})
}
