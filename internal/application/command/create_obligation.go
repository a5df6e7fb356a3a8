package command

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// CreateObligationCommand creates a single monthly obligation for a student.
// The amount due is computed from the student's current fee plan and fixed
// at creation time.
type CreateObligationCommand struct {
	AdmissionNo student.AdmissionNumber
	Month       int
	Year        int
}

// CreateObligationHandler handles the CreateObligationCommand.
type CreateObligationHandler struct {
	students student.Repository
	ledger   ledger.Repository
	versions ledger.VersionStore
}

// NewCreateObligationHandler creates a new CreateObligationHandler.
func NewCreateObligationHandler(
	students student.Repository,
	ledgerRepo ledger.Repository,
	versions ledger.VersionStore,
) *CreateObligationHandler {
	return &CreateObligationHandler{
		students: students,
		ledger:   ledgerRepo,
		versions: versions,
	}
}

// Handle executes the command. Fails with shared.ErrInvalidPeriod for a month
// outside [1,12], shared.ErrStudentNotFound for an unknown student, and
// shared.ErrDuplicateObligation if the (student, month, year) triple exists.
func (h *CreateObligationHandler) Handle(ctx context.Context, cmd CreateObligationCommand) (*ledger.Obligation, error) {
	period := ledger.Period{Month: cmd.Month, Year: cmd.Year}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	stu, err := h.students.GetByAdmissionNo(ctx, cmd.AdmissionNo)
	if err != nil {
		return nil, err
	}

	o, err := ledger.NewObligation(stu.AdmissionNo, period, stu.NetMonthlyFee(), timeutil.Now())
	if err != nil {
		return nil, err
	}

	if err := h.ledger.Create(ctx, o); err != nil {
		return nil, err
	}

	h.versions.Bump(ctx)
	return o, nil
}
