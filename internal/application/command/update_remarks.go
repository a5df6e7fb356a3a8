package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// UpdateRemarksCommand edits an obligation's free-text remarks. Remarks are
// independent of payment state and survive a payment reversal.
type UpdateRemarksCommand struct {
	ObligationID uuid.UUID
	Remarks      string
}

// UpdateRemarksHandler handles the UpdateRemarksCommand.
type UpdateRemarksHandler struct {
	ledger ledger.Repository
}

// NewUpdateRemarksHandler creates a new UpdateRemarksHandler.
func NewUpdateRemarksHandler(ledgerRepo ledger.Repository) *UpdateRemarksHandler {
	return &UpdateRemarksHandler{ledger: ledgerRepo}
}

// Handle applies the remark edit.
func (h *UpdateRemarksHandler) Handle(ctx context.Context, cmd UpdateRemarksCommand) error {
	if cmd.ObligationID == uuid.Nil {
		return errors.New("update_remarks: obligation id is required")
	}
	return h.ledger.UpdateRemarks(ctx, cmd.ObligationID, cmd.Remarks, timeutil.Now())
}
