package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// ReversePaymentCommand clears an obligation's paid state and payment
// metadata. Reversal is the only way to undo a recorded payment; recording
// over a paid obligation is always rejected.
type ReversePaymentCommand struct {
	ObligationID uuid.UUID
}

// ReversePaymentHandler handles the ReversePaymentCommand.
type ReversePaymentHandler struct {
	ledger   ledger.Repository
	versions ledger.VersionStore
}

// NewReversePaymentHandler creates a new ReversePaymentHandler.
func NewReversePaymentHandler(ledgerRepo ledger.Repository, versions ledger.VersionStore) *ReversePaymentHandler {
	return &ReversePaymentHandler{ledger: ledgerRepo, versions: versions}
}

// Handle reverses the payment. Fails with shared.ErrNotPaid if the
// obligation is currently unpaid.
func (h *ReversePaymentHandler) Handle(ctx context.Context, cmd ReversePaymentCommand) (*ledger.Obligation, error) {
	if cmd.ObligationID == uuid.Nil {
		return nil, errors.New("reverse_payment: obligation id is required")
	}

	o, err := h.ledger.ReversePayment(ctx, cmd.ObligationID, timeutil.Now())
	if err != nil {
		return nil, err
	}

	h.versions.Bump(ctx)
	return o, nil
}
