// Package query contains read operations against the fee ledger
// (CQRS - Queries). Queries never mutate the ledger.
package query

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// BalanceCache caches aggregate totals keyed by the ledger version. A lookup
// against any version other than the current one simply misses, so bumping
// the version invalidates every cached aggregate at once. Implementations
// must treat cache failures as misses: correctness never depends on the
// cache being present, only on recomputation producing the same value.
type BalanceCache interface {
	// Version returns the current ledger version (0 when unavailable).
	Version(ctx context.Context) int64

	// StudentTotals returns cached totals for (version, student), if any.
	StudentTotals(ctx context.Context, version int64, no student.AdmissionNumber) (ledger.StudentTotals, bool)

	// PutStudentTotals caches totals for (version, student). Best effort.
	PutStudentTotals(ctx context.Context, version int64, no student.AdmissionNumber, totals ledger.StudentTotals)

	// Summary returns a cached institute-wide summary for (version, key).
	Summary(ctx context.Context, version int64, key string) (ledger.Summary, bool)

	// PutSummary caches a summary for (version, key). Best effort.
	PutSummary(ctx context.Context, version int64, key string, s ledger.Summary)
}

// StudentBalanceQuery asks for one student's paid/pending totals.
type StudentBalanceQuery struct {
	AdmissionNo student.AdmissionNumber
}

// StudentBalanceHandler handles the StudentBalanceQuery.
type StudentBalanceHandler struct {
	ledger ledger.Repository
	cache  BalanceCache
}

// NewStudentBalanceHandler creates a new StudentBalanceHandler.
func NewStudentBalanceHandler(ledgerRepo ledger.Repository, cache BalanceCache) *StudentBalanceHandler {
	return &StudentBalanceHandler{ledger: ledgerRepo, cache: cache}
}

// Handle returns the student's totals, serving from cache when the cached
// value matches the current ledger version and recomputing otherwise.
func (h *StudentBalanceHandler) Handle(ctx context.Context, q StudentBalanceQuery) (ledger.StudentTotals, error) {
	version := h.cache.Version(ctx)
	if totals, ok := h.cache.StudentTotals(ctx, version, q.AdmissionNo); ok {
		return totals, nil
	}

	totals, err := h.ledger.TotalsByStudent(ctx, q.AdmissionNo)
	if err != nil {
		return ledger.StudentTotals{}, err
	}

	h.cache.PutStudentTotals(ctx, version, q.AdmissionNo, totals)
	return totals, nil
}
