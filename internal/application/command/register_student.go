// Package command contains write operations against the fee ledger
// (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// RegisterStudentCommand enrolls a new student: an admission number is issued
// and monthly obligations are seeded from the admission month through the
// current month.
type RegisterStudentCommand struct {
	Name          string
	FatherName    string
	Class         string
	Mobile        string
	FeePerMonth   decimal.Decimal
	Discount      decimal.Decimal
	AdmissionDate time.Time
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("register_student: name is required")
	}
	if c.FeePerMonth.IsNegative() {
		return errors.New("register_student: monthly fee cannot be negative")
	}
	if c.Discount.IsNegative() {
		return errors.New("register_student: discount cannot be negative")
	}
	if c.AdmissionDate.IsZero() {
		return errors.New("register_student: admission date is required")
	}
	return nil
}

// RegisterStudentResult contains the outcome of a registration.
type RegisterStudentResult struct {
	Student *student.Student

	// ObligationsSeeded is the number of monthly obligations created.
	ObligationsSeeded int
}

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	students  student.Repository
	sequences student.SequenceRepository
	ledger    ledger.Repository
	versions  ledger.VersionStore
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(
	students student.Repository,
	sequences student.SequenceRepository,
	ledgerRepo ledger.Repository,
	versions ledger.VersionStore,
) *RegisterStudentHandler {
	return &RegisterStudentHandler{
		students:  students,
		sequences: sequences,
		ledger:    ledgerRepo,
		versions:  versions,
	}
}

// Handle executes the registration.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := timeutil.Now()

	seq, err := h.sequences.Next(ctx, now.Year())
	if err != nil {
		return nil, err
	}

	stu := &student.Student{
		AdmissionNo:   student.FormatAdmissionNumber(now.Year(), seq),
		Name:          strings.TrimSpace(cmd.Name),
		FatherName:    strings.TrimSpace(cmd.FatherName),
		Class:         strings.TrimSpace(cmd.Class),
		Mobile:        strings.TrimSpace(cmd.Mobile),
		FeePerMonth:   cmd.FeePerMonth,
		Discount:      cmd.Discount,
		AdmissionDate: cmd.AdmissionDate,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := stu.Validate(); err != nil {
		return nil, err
	}

	if err := h.students.Create(ctx, stu); err != nil {
		return nil, err
	}

	seeded, err := seedObligations(ctx, h.ledger, stu, now)
	if err != nil {
		return nil, err
	}

	if seeded > 0 {
		// Cache staleness is tolerated when the version store is down:
		// reads against it fail the same way and fall back to recompute.
		h.versions.Bump(ctx)
	}

	return &RegisterStudentResult{Student: stu, ObligationsSeeded: seeded}, nil
}

// seedObligations creates one obligation per month from the student's
// admission month through the current month, skipping months that already
// have one. The amount is the student's current net monthly fee.
func seedObligations(ctx context.Context, repo ledger.Repository, stu *student.Student, now time.Time) (int, error) {
	months := timeutil.MonthsBetween(stu.AdmissionDate, now)
	if len(months) == 0 {
		return 0, nil
	}

	amount := stu.NetMonthlyFee()
	obligations := make([]*ledger.Obligation, 0, len(months))
	for _, m := range months {
		o, err := ledger.NewObligation(stu.AdmissionNo, ledger.PeriodOf(m), amount, now)
		if err != nil {
			return 0, err
		}
		obligations = append(obligations, o)
	}

	return repo.CreateMissing(ctx, obligations)
}
