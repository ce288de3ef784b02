package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/delivery/http/response"
	"userhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// SystemHandler serves the unauthenticated informational routes.
type SystemHandler struct {
	healthUC usecase.HealthUsecase
	logger   *slog.Logger
}

// NewSystemHandler is the constructor for SystemHandler.
func NewSystemHandler(healthUC usecase.HealthUsecase, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{healthUC: healthUC, logger: logger}
}

// Home greets the caller.
func (h *SystemHandler) Home(c echo.Context) error {
	return response.Message(c, http.StatusOK, "Welcome to the Home Page")
}

// About describes the service.
func (h *SystemHandler) About(c echo.Context) error {
	return response.Message(c, http.StatusOK, "About this service")
}

// Health reports whether the account store is reachable.
func (h *SystemHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.healthUC.Check(ctx); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Health check failed", slog.Any("error", err))

		return response.JSON(c, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusUnavailable})
	}

	return response.JSON(c, http.StatusOK, HealthResponse{Status: healthStatusOK})
}
