package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// Repository defines persistence operations for fee obligations. The storage
// layer enforces the one-obligation-per-(student, month, year) invariant with
// a uniqueness constraint; callers never pre-check with a SELECT.
type Repository interface {
	// Create stores a new obligation. Returns shared.ErrDuplicateObligation
	// if an obligation already exists for the same (student, month, year).
	Create(ctx context.Context, o *Obligation) error

	// CreateMissing stores the given obligations, silently skipping any
	// whose (student, month, year) already exists. Returns the number
	// actually created. The whole batch is one transaction.
	CreateMissing(ctx context.Context, obligations []*Obligation) (int, error)

	// GetByID returns the obligation, or shared.ErrObligationNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Obligation, error)

	// GetByPeriod returns the student's obligation for the period,
	// or shared.ErrObligationNotFound.
	GetByPeriod(ctx context.Context, no student.AdmissionNumber, p Period) (*Obligation, error)

	// ListByStudent returns all of the student's obligations ordered by
	// (year, month) ascending.
	ListByStudent(ctx context.Context, no student.AdmissionNumber) ([]*Obligation, error)

	// ListUnpaidByStudent returns the student's unpaid obligations ordered
	// by (year, month) ascending.
	ListUnpaidByStudent(ctx context.Context, no student.AdmissionNumber) ([]*Obligation, error)

	// RecordPayment atomically transitions the obligation from unpaid to
	// paid, stamping the payment metadata and any remarks in the same
	// statement. Of two racing calls exactly one succeeds; the loser gets
	// shared.ErrAlreadyPaid. A missing obligation yields
	// shared.ErrObligationNotFound.
	RecordPayment(ctx context.Context, id uuid.UUID, details PaymentDetails, at time.Time) (*Obligation, error)

	// ReversePayment atomically clears the paid state and payment metadata.
	// Returns shared.ErrNotPaid if the obligation is unpaid, or
	// shared.ErrObligationNotFound if it does not exist.
	ReversePayment(ctx context.Context, id uuid.UUID, at time.Time) (*Obligation, error)

	// UpdateRemarks replaces the obligation's remarks.
	UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string, at time.Time) error

	// TotalsByStudent sums AmountDue over the student's obligations split by
	// paid state. Exact decimal arithmetic; these figures appear on
	// financial documents.
	TotalsByStudent(ctx context.Context, no student.AdmissionNumber) (StudentTotals, error)

	// InstituteTotals sums AmountDue across all students split by paid state.
	InstituteTotals(ctx context.Context) (Summary, error)

	// PeriodTotals sums AmountDue for one calendar period split by paid
	// state, for the dashboard's current-month figures.
	PeriodTotals(ctx context.Context, p Period) (Summary, error)

	// ExportRows returns the flat projection of every obligation joined with
	// student identity, ordered by (admission number, year, month).
	ExportRows(ctx context.Context) ([]ExportRow, error)
}

// VersionStore tracks the monotonically increasing ledger version used to
// key cached aggregates. Every ledger mutation bumps the version, which
// implicitly invalidates all cached totals.
type VersionStore interface {
	// Current returns the current ledger version. A store that has never
	// been bumped reports 0.
	Current(ctx context.Context) (int64, error)

	// Bump increments and returns the ledger version.
	Bump(ctx context.Context) (int64, error)
}
