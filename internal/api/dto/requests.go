package dto

// ReconcileRequest carries a batch of incoming transactions to match
// against stored history and apply.
type ReconcileRequest struct {
	Transactions []Transaction `json:"transactions" binding:"required"`
}

// DedupPreviewRequest carries a batch to check for duplicates without
// writing anything.
type DedupPreviewRequest struct {
	Transactions []Transaction `json:"transactions" binding:"required"`
}
