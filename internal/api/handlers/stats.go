package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendlens/spendlens-backend/internal/api/dto"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// StatsHandler serves aggregate counters.
type StatsHandler struct {
	repo   storage.Repository
	logger *slog.Logger
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(repo storage.Repository, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{repo: repo, logger: logger}
}

// Get returns aggregate storage counters.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.logger.Error("fetching stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, stats)
}
