package query

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// FeeHistoryQuery asks for a student's full obligation history.
type FeeHistoryQuery struct {
	AdmissionNo student.AdmissionNumber
}

// FeeHistory is a student's ledger rows plus their totals, as shown on the
// student fee page.
type FeeHistory struct {
	Student     *student.Student
	Obligations []*ledger.Obligation
	Totals      ledger.StudentTotals
}

// FeeHistoryHandler handles the FeeHistoryQuery.
type FeeHistoryHandler struct {
	students student.Repository
	ledger   ledger.Repository
	balances *StudentBalanceHandler
}

// NewFeeHistoryHandler creates a new FeeHistoryHandler.
func NewFeeHistoryHandler(students student.Repository, ledgerRepo ledger.Repository, balances *StudentBalanceHandler) *FeeHistoryHandler {
	return &FeeHistoryHandler{students: students, ledger: ledgerRepo, balances: balances}
}

// Handle returns the student's obligations ordered by (year, month).
func (h *FeeHistoryHandler) Handle(ctx context.Context, q FeeHistoryQuery) (*FeeHistory, error) {
	stu, err := h.students.GetByAdmissionNo(ctx, q.AdmissionNo)
	if err != nil {
		return nil, err
	}

	obligations, err := h.ledger.ListByStudent(ctx, q.AdmissionNo)
	if err != nil {
		return nil, err
	}

	totals, err := h.balances.Handle(ctx, StudentBalanceQuery{AdmissionNo: q.AdmissionNo})
	if err != nil {
		return nil, err
	}

	return &FeeHistory{
		Student:     stu,
		Obligations: obligations,
		Totals:      totals,
	}, nil
}
