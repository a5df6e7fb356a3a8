// Package student contains the student reference model used by the fee ledger.
// The ledger only needs a student's identity and fee plan; full student records
// (photos, guardians, contact details) are owned elsewhere.
package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
)

// AdmissionNumber is the unique, immutable student identifier issued at
// registration, e.g. "SL20250001". Numbers are never reused, even after a
// student record is deleted.
type AdmissionNumber string

// admissionPrefix is the institute code prefixed to every admission number.
const admissionPrefix = "SL"

// FormatAdmissionNumber builds an admission number from the enrollment year
// and a sequence value: SL<year><sequence, zero-padded to 4 digits>.
func FormatAdmissionNumber(year, sequence int) AdmissionNumber {
	return AdmissionNumber(fmt.Sprintf("%s%d%04d", admissionPrefix, year, sequence))
}

// IsValid checks the admission number shape: prefix plus at least 8 digits.
func (a AdmissionNumber) IsValid() bool {
	s := string(a)
	if !strings.HasPrefix(s, admissionPrefix) {
		return false
	}
	digits := s[len(admissionPrefix):]
	if len(digits) < 8 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the string representation of the admission number.
func (a AdmissionNumber) String() string {
	return string(a)
}

// Student holds the ledger-relevant facts about an enrolled student.
type Student struct {
	// AdmissionNo is the generated, immutable identifier.
	AdmissionNo AdmissionNumber

	// Name is the student's full name.
	Name string

	// FatherName appears on receipts and demand bills.
	FatherName string

	// Class is the enrolled class/grade label.
	Class string

	// Mobile is the guardian contact number.
	Mobile string

	// FeePerMonth is the monthly fee amount before discount.
	FeePerMonth decimal.Decimal

	// Discount is a flat amount subtracted from the monthly fee.
	Discount decimal.Decimal

	// AdmissionDate is when the student enrolled; obligations are seeded
	// from this month forward.
	AdmissionDate time.Time

	// Active indicates whether the student is currently studying. Bulk fee
	// generation only targets active students.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the student's fee plan invariants.
func (s *Student) Validate() error {
	if !s.AdmissionNo.IsValid() {
		return shared.NewDomainError("student", "Validate", shared.ErrInvalidInput, "invalid admission number")
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("student", "Validate", shared.ErrEmptyValue, "name is required")
	}
	if s.FeePerMonth.IsNegative() {
		return shared.NewDomainError("student", "Validate", shared.ErrNegativeValue, "monthly fee cannot be negative")
	}
	if s.Discount.IsNegative() {
		return shared.NewDomainError("student", "Validate", shared.ErrNegativeValue, "discount cannot be negative")
	}
	if s.Discount.GreaterThan(s.FeePerMonth) {
		return shared.ErrInvalidFeePlan
	}
	return nil
}

// NetMonthlyFee returns the amount due for one month under the current plan:
// monthly fee minus discount. Obligations copy this value at creation time,
// so later plan changes never alter existing obligations.
func (s *Student) NetMonthlyFee() decimal.Decimal {
	return s.FeePerMonth.Sub(s.Discount)
}
