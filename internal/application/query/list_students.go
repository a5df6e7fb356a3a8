package query

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// StudentWithBalance pairs a student with their current pending total, as
// shown on the search and fee-management pages.
type StudentWithBalance struct {
	Student *student.Student
	Totals  ledger.StudentTotals
}

// ListStudentsHandler lists students with their balances.
type ListStudentsHandler struct {
	students student.Repository
	balances *StudentBalanceHandler
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(students student.Repository, balances *StudentBalanceHandler) *ListStudentsHandler {
	return &ListStudentsHandler{students: students, balances: balances}
}

// Handle returns students matching the search term (all students when the
// term is empty), each with paid/pending totals.
func (h *ListStudentsHandler) Handle(ctx context.Context, search string) ([]StudentWithBalance, error) {
	students, err := h.students.List(ctx, search)
	if err != nil {
		return nil, err
	}

	result := make([]StudentWithBalance, 0, len(students))
	for _, stu := range students {
		totals, err := h.balances.Handle(ctx, StudentBalanceQuery{AdmissionNo: stu.AdmissionNo})
		if err != nil {
			return nil, err
		}
		result = append(result, StudentWithBalance{Student: stu, Totals: totals})
	}
	return result, nil
}
