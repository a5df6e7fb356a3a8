package query

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
)

// ExportRowsHandler serves the flat per-obligation projection consumed by
// the CSV export collaborator. The ledger hands over ordered rows; how they
// are serialized is the caller's concern.
type ExportRowsHandler struct {
	ledger ledger.Repository
}

// NewExportRowsHandler creates a new ExportRowsHandler.
func NewExportRowsHandler(ledgerRepo ledger.Repository) *ExportRowsHandler {
	return &ExportRowsHandler{ledger: ledgerRepo}
}

// Handle returns every obligation joined with student identity, ordered by
// (admission number, year, month).
func (h *ExportRowsHandler) Handle(ctx context.Context) ([]ledger.ExportRow, error) {
	return h.ledger.ExportRows(ctx)
}
