package postgres

import (
	"context"
	"fmt"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
)

// SequenceRepository implements student.SequenceRepository on a persistent
// per-year counter. The upsert increments under the row lock, so concurrent
// registrations get distinct values and deleting students never frees a
// number for reuse.
type SequenceRepository struct {
	conn *Connection
}

// NewSequenceRepository creates a new admission sequence repository.
func NewSequenceRepository(conn *Connection) *SequenceRepository {
	return &SequenceRepository{conn: conn}
}

// Next atomically increments and returns the counter for the given year.
func (r *SequenceRepository) Next(ctx context.Context, year int) (int, error) {
	var value int
	err := r.conn.QueryRow(ctx, `
		INSERT INTO admission_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = admission_sequences.last_value + 1
		RETURNING last_value`,
		year,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("%w: admission sequence for year %d: %v",
			shared.ErrStorageUnavailable, year, err)
	}
	return value, nil
}
