package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	model port.ModelClient
}

// NewHealthHandler creates a new HealthHandler. A nil model client makes the
// service report not ready.
func NewHealthHandler(model port.ModelClient) *HealthHandler {
	return &HealthHandler{model: model}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.model == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "no model provider configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
