package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check responds with a static healthy payload.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
