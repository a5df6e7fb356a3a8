package command

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// BulkGenerateCommand creates the given period's obligation for every active
// student. The operation is idempotent: students who already have an
// obligation for the period are skipped, never duplicated or overwritten.
type BulkGenerateCommand struct {
	Month int
	Year  int
}

// BulkGenerateResult reports how much work the generation actually did.
type BulkGenerateResult struct {
	// Created is the number of obligations newly created.
	Created int

	// ActiveStudents is the number of students considered.
	ActiveStudents int
}

// BulkGenerateHandler handles the BulkGenerateCommand.
type BulkGenerateHandler struct {
	students student.Repository
	ledger   ledger.Repository
	versions ledger.VersionStore
}

// NewBulkGenerateHandler creates a new BulkGenerateHandler.
func NewBulkGenerateHandler(
	students student.Repository,
	ledgerRepo ledger.Repository,
	versions ledger.VersionStore,
) *BulkGenerateHandler {
	return &BulkGenerateHandler{
		students: students,
		ledger:   ledgerRepo,
		versions: versions,
	}
}

// Handle executes the bulk generation.
func (h *BulkGenerateHandler) Handle(ctx context.Context, cmd BulkGenerateCommand) (*BulkGenerateResult, error) {
	period := ledger.Period{Month: cmd.Month, Year: cmd.Year}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	active, err := h.students.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	obligations := make([]*ledger.Obligation, 0, len(active))
	for _, stu := range active {
		o, err := ledger.NewObligation(stu.AdmissionNo, period, stu.NetMonthlyFee(), now)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, o)
	}

	created, err := h.ledger.CreateMissing(ctx, obligations)
	if err != nil {
		return nil, err
	}

	if created > 0 {
		h.versions.Bump(ctx)
	}

	return &BulkGenerateResult{Created: created, ActiveStudents: len(active)}, nil
}
