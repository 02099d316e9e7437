package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/certtrack/certification-system/internal/core/ports"
)

type HealthHandler struct {
	store ports.KVStore
}

func NewHealthHandler(store ports.KVStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness verifies that the backing store is reachable.
func (h *HealthHandler) Readiness(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"store":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
