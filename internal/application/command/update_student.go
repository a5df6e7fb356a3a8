package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// UpdateStudentCommand edits a student's mutable fields. Changing the fee
// plan affects only obligations created afterwards; existing obligations
// keep the amount fixed at their creation time.
type UpdateStudentCommand struct {
	AdmissionNo student.AdmissionNumber
	Name        string
	FatherName  string
	Class       string
	Mobile      string
	FeePerMonth decimal.Decimal
	Discount    decimal.Decimal
	Active      bool
}

// UpdateStudentHandler handles the UpdateStudentCommand.
type UpdateStudentHandler struct {
	students student.Repository
}

// NewUpdateStudentHandler creates a new UpdateStudentHandler.
func NewUpdateStudentHandler(students student.Repository) *UpdateStudentHandler {
	return &UpdateStudentHandler{students: students}
}

// Handle applies the edit.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*student.Student, error) {
	stu, err := h.students.GetByAdmissionNo(ctx, cmd.AdmissionNo)
	if err != nil {
		return nil, err
	}

	stu.Name = cmd.Name
	stu.FatherName = cmd.FatherName
	stu.Class = cmd.Class
	stu.Mobile = cmd.Mobile
	stu.FeePerMonth = cmd.FeePerMonth
	stu.Discount = cmd.Discount
	stu.Active = cmd.Active
	stu.UpdatedAt = timeutil.Now()

	if err := stu.Validate(); err != nil {
		return nil, err
	}

	if err := h.students.Update(ctx, stu); err != nil {
		return nil, err
	}
	return stu, nil
}
