// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "ledger", "student", "document"
	Op      string // Operation that failed, e.g., "Create", "RecordPayment"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Ledger domain errors
var (
	// ErrDuplicateObligation is returned when an obligation already exists for
	// a (student, month, year) triple.
	ErrDuplicateObligation = NewDomainError("ledger", "Create", ErrAlreadyExists, "obligation already exists for this period")

	// ErrInvalidPeriod is returned for a month outside [1,12] or a year before 1900.
	ErrInvalidPeriod = NewDomainError("ledger", "Validate", ErrValueOutOfRange, "invalid fee period")

	// ErrObligationNotFound is returned when the requested obligation does not exist.
	ErrObligationNotFound = NewDomainError("ledger", "Find", ErrNotFound, "obligation not found")

	// ErrAlreadyPaid is returned when recording a payment against a paid obligation.
	ErrAlreadyPaid = NewDomainError("ledger", "RecordPayment", ErrInvalidState, "obligation is already paid")

	// ErrNotPaid is returned when reversing a payment on an unpaid obligation.
	ErrNotPaid = NewDomainError("ledger", "ReversePayment", ErrInvalidState, "obligation is not paid")
)

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrInvalidFeePlan       = NewDomainError("student", "Validate", ErrInvalidInput, "discount cannot exceed monthly fee")
)

// Document domain errors
var (
	// ErrNoOutstandingBalance is returned when a demand bill is requested for a
	// student with no unpaid obligations.
	ErrNoOutstandingBalance = NewDomainError("document", "DemandBill", ErrInvalidState, "no outstanding balance")

	// ErrReceiptUnpaid is returned when a receipt is requested for an unpaid
	// obligation. Receipts are proof of payment.
	ErrReceiptUnpaid = NewDomainError("document", "Receipt", ErrInvalidState, "cannot issue receipt for unpaid obligation")
)

// Institute domain errors
var (
	ErrBrandingNotFound = NewDomainError("institute", "Find", ErrNotFound, "institute branding not configured")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsInvalidState checks if the error is a state-transition error.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) || errors.Is(err, ErrStateTransition)
}

// IsStorageUnavailable checks if the error is a storage failure.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
