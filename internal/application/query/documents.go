package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/sansa-learn/fee-ledger/internal/document"
	"github.com/sansa-learn/fee-ledger/internal/domain/institute"
	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// AssetLoader fetches stored branding images (logo, signature) by reference.
// A missing or unreadable asset is not fatal to rendering: documents fall
// back to text-only branding.
type AssetLoader interface {
	Load(ctx context.Context, path string) ([]byte, error)
}

// DocumentSnapshotHandler assembles frozen document snapshots from a
// consistent read of the ledger plus current branding. Rendering itself is
// pure (internal/document); this handler is the only place that touches the
// live ledger, so an issued document stays valid evidence of ledger state at
// issuance even after later payments.
type DocumentSnapshotHandler struct {
	students student.Repository
	ledger   ledger.Repository
	branding institute.Repository
	assets   AssetLoader
}

// NewDocumentSnapshotHandler creates a new DocumentSnapshotHandler.
func NewDocumentSnapshotHandler(
	students student.Repository,
	ledgerRepo ledger.Repository,
	branding institute.Repository,
	assets AssetLoader,
) *DocumentSnapshotHandler {
	return &DocumentSnapshotHandler{
		students: students,
		ledger:   ledgerRepo,
		branding: branding,
		assets:   assets,
	}
}

// Receipt freezes the given paid obligation into a receipt snapshot.
// Fails with shared.ErrReceiptUnpaid if the obligation is unpaid.
func (h *DocumentSnapshotHandler) Receipt(ctx context.Context, obligationID uuid.UUID) (*document.ReceiptSnapshot, error) {
	o, err := h.ledger.GetByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}

	stu, err := h.students.GetByAdmissionNo(ctx, o.AdmissionNo)
	if err != nil {
		return nil, err
	}

	b, logo, sig, err := h.loadBranding(ctx)
	if err != nil {
		return nil, err
	}

	return document.NewReceiptSnapshot(stu, o, b, logo, sig, timeutil.Now())
}

// DemandBill freezes the student's unpaid obligations into a demand bill
// snapshot. Fails with shared.ErrNoOutstandingBalance when nothing is due.
func (h *DocumentSnapshotHandler) DemandBill(ctx context.Context, no student.AdmissionNumber) (*document.DemandBillSnapshot, error) {
	stu, err := h.students.GetByAdmissionNo(ctx, no)
	if err != nil {
		return nil, err
	}

	unpaid, err := h.ledger.ListUnpaidByStudent(ctx, no)
	if err != nil {
		return nil, err
	}

	b, logo, sig, err := h.loadBranding(ctx)
	if err != nil {
		return nil, err
	}

	return document.NewDemandBillSnapshot(stu, unpaid, b, logo, sig, timeutil.Now())
}

func (h *DocumentSnapshotHandler) loadBranding(ctx context.Context) (*institute.Branding, []byte, []byte, error) {
	b, err := h.branding.Get(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	var logo, sig []byte
	if b.LogoPath != "" {
		logo, _ = h.assets.Load(ctx, b.LogoPath)
	}
	if b.SignaturePath != "" {
		sig, _ = h.assets.Load(ctx, b.SignaturePath)
	}
	return b, logo, sig, nil
}
