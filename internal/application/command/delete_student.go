package command

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// DeleteStudentCommand removes a student. The storage layer cascades the
// delete to all of the student's obligations; the admission number itself is
// never reissued.
type DeleteStudentCommand struct {
	AdmissionNo student.AdmissionNumber
}

// DeleteStudentHandler handles the DeleteStudentCommand.
type DeleteStudentHandler struct {
	students student.Repository
	versions ledger.VersionStore
}

// NewDeleteStudentHandler creates a new DeleteStudentHandler.
func NewDeleteStudentHandler(students student.Repository, versions ledger.VersionStore) *DeleteStudentHandler {
	return &DeleteStudentHandler{students: students, versions: versions}
}

// Handle deletes the student and their obligations.
func (h *DeleteStudentHandler) Handle(ctx context.Context, cmd DeleteStudentCommand) error {
	if err := h.students.Delete(ctx, cmd.AdmissionNo); err != nil {
		return err
	}

	h.versions.Bump(ctx)
	return nil
}
