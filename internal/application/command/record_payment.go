package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// RecordPaymentCommand marks an obligation as paid, stamping the payment
// date, mode, and optional remarks together. Either all payment fields
// become visible or none do; there is no half-paid state.
type RecordPaymentCommand struct {
	ObligationID uuid.UUID
	PaymentDate  time.Time
	PaymentMode  string
	Remarks      string
}

// Validate validates the command.
func (c RecordPaymentCommand) Validate() error {
	if c.ObligationID == uuid.Nil {
		return errors.New("record_payment: obligation id is required")
	}
	if c.PaymentDate.IsZero() {
		return errors.New("record_payment: payment date is required")
	}
	if c.PaymentMode == "" {
		return errors.New("record_payment: payment mode is required")
	}
	return nil
}

// RecordPaymentHandler handles the RecordPaymentCommand.
type RecordPaymentHandler struct {
	ledger   ledger.Repository
	versions ledger.VersionStore
}

// NewRecordPaymentHandler creates a new RecordPaymentHandler.
func NewRecordPaymentHandler(ledgerRepo ledger.Repository, versions ledger.VersionStore) *RecordPaymentHandler {
	return &RecordPaymentHandler{ledger: ledgerRepo, versions: versions}
}

// Handle records the payment. Of two racing calls against the same
// obligation exactly one succeeds; the other observes shared.ErrAlreadyPaid.
// The storage layer serializes the transition with a compare-and-set on the
// paid flag, so no pre-read is done here.
func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*ledger.Obligation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Remarks travel inside the same compare-and-set statement, so the
	// stamp is all-or-nothing even when remarks are present.
	details := ledger.PaymentDetails{
		Date:    cmd.PaymentDate,
		Mode:    cmd.PaymentMode,
		Remarks: cmd.Remarks,
	}
	o, err := h.ledger.RecordPayment(ctx, cmd.ObligationID, details, timeutil.Now())
	if err != nil {
		return nil, err
	}

	h.versions.Bump(ctx)
	return o, nil
}
