package command

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// EnsureObligationsCommand backfills one student's monthly obligations from
// their admission month through the current month. Months that already have
// an obligation are left untouched, so repeated invocation is harmless.
type EnsureObligationsCommand struct {
	AdmissionNo student.AdmissionNumber
}

// EnsureObligationsHandler handles the EnsureObligationsCommand.
type EnsureObligationsHandler struct {
	students student.Repository
	ledger   ledger.Repository
	versions ledger.VersionStore
}

// NewEnsureObligationsHandler creates a new EnsureObligationsHandler.
func NewEnsureObligationsHandler(
	students student.Repository,
	ledgerRepo ledger.Repository,
	versions ledger.VersionStore,
) *EnsureObligationsHandler {
	return &EnsureObligationsHandler{
		students: students,
		ledger:   ledgerRepo,
		versions: versions,
	}
}

// Handle executes the backfill and returns the number of obligations created.
func (h *EnsureObligationsHandler) Handle(ctx context.Context, cmd EnsureObligationsCommand) (int, error) {
	stu, err := h.students.GetByAdmissionNo(ctx, cmd.AdmissionNo)
	if err != nil {
		return 0, err
	}

	created, err := seedObligations(ctx, h.ledger, stu, timeutil.Now())
	if err != nil {
		return 0, err
	}

	if created > 0 {
		h.versions.Bump(ctx)
	}
	return created, nil
}
