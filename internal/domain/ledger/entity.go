// Package ledger contains the fee obligation model - the core of the engine.
// An obligation is the amount a specific student owes for a specific calendar
// month; the ledger is the set of all obligations across students and periods.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// Period identifies the calendar month an obligation covers.
type Period struct {
	Month int // 1-12
	Year  int // >= 1900
}

// PeriodOf returns the period containing t (institute time).
func PeriodOf(t time.Time) Period {
	m, y := timeutil.PeriodOf(t)
	return Period{Month: m, Year: y}
}

// Validate checks the period bounds.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return shared.ErrInvalidPeriod
	}
	if p.Year < 1900 {
		return shared.ErrInvalidPeriod
	}
	return nil
}

// Before reports whether p precedes other in calendar order.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// String returns the period as "January 2025".
func (p Period) String() string {
	return fmt.Sprintf("%s %d", timeutil.MonthName(p.Month), p.Year)
}

// PaymentDetails holds the metadata stamped when an obligation is paid.
// An obligation is paid iff its Payment pointer is non-nil, so the state
// "unpaid but dated" cannot be represented.
type PaymentDetails struct {
	// Date is the payment date.
	Date time.Time

	// Mode is the free-text payment mode, e.g. "Cash", "UPI".
	Mode string

	// Remarks, when non-empty, replaces the obligation's remarks as part of
	// the same stamp. It is write-side input: the persisted payment state is
	// Date and Mode only.
	Remarks string
}

// Obligation is one student's fee liability for one calendar month.
// At most one obligation exists per (student, month, year).
type Obligation struct {
	// ID is the obligation identifier.
	ID uuid.UUID

	// AdmissionNo references the owning student.
	AdmissionNo student.AdmissionNumber

	// Period is the calendar month this obligation covers.
	Period Period

	// AmountDue is the amount owed, fixed at creation time from the
	// student's then-current fee plan. Later plan changes do not
	// retroactively alter it.
	AmountDue decimal.Decimal

	// Payment is nil while unpaid; set when a payment is recorded.
	Payment *PaymentDetails

	// Remarks is optional free text, editable independently of payment state.
	Remarks string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewObligation creates an unpaid obligation for the given student and period.
func NewObligation(no student.AdmissionNumber, period Period, amountDue decimal.Decimal, now time.Time) (*Obligation, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if amountDue.IsNegative() {
		return nil, shared.NewDomainError("ledger", "Create", shared.ErrNegativeValue, "amount due cannot be negative")
	}

	return &Obligation{
		ID:          uuid.New(),
		AdmissionNo: no,
		Period:      period,
		AmountDue:   amountDue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Paid reports whether a payment has been recorded.
func (o *Obligation) Paid() bool {
	return o.Payment != nil
}

// RecordPayment transitions the obligation to paid, stamping the payment
// metadata. Fails with shared.ErrAlreadyPaid if already paid - a reversal
// must be explicit, never a silent overwrite.
func (o *Obligation) RecordPayment(details PaymentDetails, now time.Time) error {
	if o.Paid() {
		return shared.ErrAlreadyPaid
	}
	if details.Date.IsZero() {
		return shared.NewDomainError("ledger", "RecordPayment", shared.ErrEmptyValue, "payment date is required")
	}
	if details.Mode == "" {
		return shared.NewDomainError("ledger", "RecordPayment", shared.ErrEmptyValue, "payment mode is required")
	}

	o.Payment = &PaymentDetails{Date: details.Date, Mode: details.Mode}
	if details.Remarks != "" {
		o.Remarks = details.Remarks
	}
	o.UpdatedAt = now
	return nil
}

// ReversePayment clears the paid state and payment metadata.
// Fails with shared.ErrNotPaid if the obligation is currently unpaid.
func (o *Obligation) ReversePayment(now time.Time) error {
	if !o.Paid() {
		return shared.ErrNotPaid
	}

	o.Payment = nil
	o.UpdatedAt = now
	return nil
}

// ReceiptNumber derives the receipt identifier for a paid obligation:
// REC<year><month, 2 digits>-<first 8 hex chars of the obligation ID>.
// It depends only on immutable fields, so a reprinted receipt carries the
// same number.
func (o *Obligation) ReceiptNumber() string {
	id := o.ID.String()
	return fmt.Sprintf("REC%d%02d-%s", o.Period.Year, o.Period.Month, id[:8])
}

// ExportRow is the flat per-obligation projection handed to the CSV export
// collaborator. The ledger exposes rows; serialization is not its concern.
type ExportRow struct {
	AdmissionNo string
	StudentName string
	Month       int
	Year        int
	AmountDue   decimal.Decimal
	Paid        bool
	PaymentDate string // YYYY-MM-DD, empty if unpaid
	PaymentMode string // empty if unpaid
	Remarks     string
}

// Summary holds institute-wide ledger statistics for dashboards.
type Summary struct {
	TotalCollected decimal.Decimal
	TotalPending   decimal.Decimal
	PaidCount      int
	PendingCount   int
}

// StudentTotals holds one student's aggregate balances.
type StudentTotals struct {
	Paid    decimal.Decimal
	Pending decimal.Decimal
}
