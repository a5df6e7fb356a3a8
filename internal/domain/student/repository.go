package student

import (
	"context"
)

// Repository defines persistence operations for student references.
type Repository interface {
	// Create stores a new student. Returns shared.ErrStudentAlreadyExists if
	// the admission number is taken.
	Create(ctx context.Context, s *Student) error

	// GetByAdmissionNo returns the student with the given admission number,
	// or shared.ErrStudentNotFound.
	GetByAdmissionNo(ctx context.Context, no AdmissionNumber) (*Student, error)

	// List returns students ordered by admission number. A non-empty search
	// term filters by admission number or name (case-insensitive substring).
	List(ctx context.Context, search string) ([]*Student, error)

	// ListActive returns all currently studying students.
	ListActive(ctx context.Context) ([]*Student, error)

	// Update stores changes to an existing student's mutable fields.
	// The admission number is immutable.
	Update(ctx context.Context, s *Student) error

	// Delete removes the student. The storage layer cascades the delete to
	// all of the student's fee obligations.
	Delete(ctx context.Context, no AdmissionNumber) error

	// Count returns the number of registered students.
	Count(ctx context.Context) (int, error)
}

// SequenceRepository issues admission number sequence values. Values are
// allocated from a persistent per-year counter and are never reused, so
// deleting a student can never cause a number to be issued twice.
type SequenceRepository interface {
	// Next atomically increments and returns the counter for the given
	// enrollment year. Fails with shared.ErrStorageUnavailable if the
	// counter storage cannot be reached.
	Next(ctx context.Context, year int) (int, error)
}
