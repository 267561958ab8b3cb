package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendlens/spendlens-backend/internal/api/dto"
	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/importer"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// TransactionsHandler serves transaction ingestion and listing.
type TransactionsHandler struct {
	reconcile *service.ReconcileService
	repo      storage.Repository
	logger    *slog.Logger
}

// NewTransactionsHandler creates a transactions handler.
func NewTransactionsHandler(reconcile *service.ReconcileService, repo storage.Repository, logger *slog.Logger) *TransactionsHandler {
	return &TransactionsHandler{reconcile: reconcile, repo: repo, logger: logger}
}

// Reconcile matches an incoming batch against stored history and applies
// the result. The batch arrives as JSON, or as a raw CSV body when the
// format query parameter names a registered parser.
func (h *TransactionsHandler) Reconcile(c *gin.Context) {
	txns, ok := h.readBatch(c)
	if !ok {
		return
	}

	report, err := h.reconcile.Reconcile(txns)
	if err != nil {
		h.logger.Error("reconcile failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.NewReconcileResponse(report.Run))
}

// PreviewDedup reports which transactions of a batch would be dropped as
// duplicates, without writing anything.
func (h *TransactionsHandler) PreviewDedup(c *gin.Context) {
	txns, ok := h.readBatch(c)
	if !ok {
		return
	}

	result, err := h.reconcile.PreviewDedup(txns)
	if err != nil {
		h.logger.Error("dedup preview failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.NewDedupPreviewResponse(result))
}

// readBatch decodes the request body into engine transactions. A format
// query parameter selects a CSV parser; otherwise the body is JSON.
// On failure it writes the error response and returns false.
func (h *TransactionsHandler) readBatch(c *gin.Context) ([]dedup.Transaction, bool) {
	if format := c.Query("format"); format != "" {
		parser := importer.DefaultRegistry().Get(format)
		if parser == nil {
			c.JSON(http.StatusBadRequest, dto.BadRequestError("unknown format: "+format))
			return nil, false
		}
		txns, err := parser.Parse(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
			return nil, false
		}
		return txns, true
	}

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return nil, false
	}

	txns, err := dto.ToDomainBatch(req.Transactions)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return nil, false
	}
	return txns, true
}

// List returns stored transactions, optionally bounded by from/to query
// dates and filtered by pending state.
func (h *TransactionsHandler) List(c *gin.Context) {
	from := ParseDateParam(c, "from")
	to := ParseDateParam(c, "to")

	txns, err := h.repo.ListTransactions(from, to)
	if err != nil {
		h.logger.Error("listing transactions failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	if pending := c.Query("pending"); pending != "" {
		want := pending == "true" || pending == "1"
		filtered := txns[:0]
		for _, txn := range txns {
			if txn.IsPending == want {
				filtered = append(filtered, txn)
			}
		}
		txns = filtered
	}

	c.JSON(http.StatusOK, dto.NewTransactionListResponse(txns))
}
