package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and the active storage backend
type HealthHandler struct {
	storageBackend string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(storageBackend string) *HealthHandler {
	return &HealthHandler{storageBackend: storageBackend}
}

// Check handles GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.storageBackend,
	})
}
