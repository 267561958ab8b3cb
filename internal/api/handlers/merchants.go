package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendlens/spendlens-backend/internal/api/dto"
	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// MerchantsHandler serves recurring-expense detection and stored verdicts.
type MerchantsHandler struct {
	recurring *service.RecurringService
	repo      storage.Repository
	logger    *slog.Logger
}

// NewMerchantsHandler creates a merchants handler.
func NewMerchantsHandler(recurring *service.RecurringService, repo storage.Repository, logger *slog.Logger) *MerchantsHandler {
	return &MerchantsHandler{recurring: recurring, repo: repo, logger: logger}
}

// Classify runs recurring-expense detection over the stored history and
// persists one verdict per merchant group.
func (h *MerchantsHandler) Classify(c *gin.Context) {
	report, err := h.recurring.DetectRecurring(c.Request.Context())
	if err != nil {
		h.logger.Error("recurring detection failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListRecurring returns the stored per-merchant verdicts.
func (h *MerchantsHandler) ListRecurring(c *gin.Context) {
	classifications, err := h.repo.ListClassifications()
	if err != nil {
		h.logger.Error("listing classifications failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"merchants": classifications,
		"count":     len(classifications),
	})
}
