package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// GenericParser parses CSVs with a date,merchant,amount header, with
// optional category, description, and pending columns in any order.
type GenericParser struct{}

const genericDateFormat = "2006-01-02"

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic CSV and returns transactions.
func (p *GenericParser) Parse(r io.Reader) ([]dedup.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	var txns []dedup.Transaction
	for i, rec := range records[1:] {
		txn, err := parseGenericRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// columnMap holds header positions, -1 for absent optional columns.
type columnMap struct {
	date, merchant, amount         int
	category, description, pending int
}

func mapHeader(header []string) (columnMap, error) {
	cols := columnMap{date: -1, merchant: -1, amount: -1, category: -1, description: -1, pending: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "merchant", "payee", "name":
			cols.merchant = i
		case "amount":
			cols.amount = i
		case "category":
			cols.category = i
		case "description", "memo", "notes":
			cols.description = i
		case "pending", "is_pending":
			cols.pending = i
		}
	}
	if cols.date < 0 || cols.merchant < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("header must include date, merchant, and amount columns, got %v", header)
	}
	return cols, nil
}

func maxIndex(indexes ...int) int {
	max := indexes[0]
	for _, i := range indexes[1:] {
		if i > max {
			max = i
		}
	}
	return max
}

func parseGenericRow(cols columnMap, rec []string) (dedup.Transaction, error) {
	// FieldsPerRecord is disabled, so row lengths must be checked here.
	if need := maxIndex(cols.date, cols.merchant, cols.amount) + 1; len(rec) < need {
		return dedup.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", need, len(rec))
	}

	date, err := time.Parse(genericDateFormat, rec[cols.date])
	if err != nil {
		return dedup.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[cols.date], err)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(rec[cols.amount], ",", ""))
	if err != nil {
		return dedup.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[cols.amount], err)
	}

	txn := dedup.Transaction{
		Date:     date.UTC(),
		Merchant: rec[cols.merchant],
		Amount:   amount.InexactFloat64(),
	}
	if cols.category >= 0 && cols.category < len(rec) {
		txn.Category = rec[cols.category]
	}
	if cols.description >= 0 && cols.description < len(rec) {
		txn.Description = rec[cols.description]
	}
	if cols.pending >= 0 && cols.pending < len(rec) {
		pending, err := strconv.ParseBool(strings.TrimSpace(rec[cols.pending]))
		if err != nil {
			return dedup.Transaction{}, fmt.Errorf("parsing pending %q: %w", rec[cols.pending], err)
		}
		txn.IsPending = pending
	}
	return txn, nil
}
