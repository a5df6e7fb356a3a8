package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

func TestStudentBalance_CachesAtCurrentVersion(t *testing.T) {
	repo := &stubLedgerRepo{studentTotals: sampleTotals()}
	cache := newFakeBalanceCache()
	h := NewStudentBalanceHandler(repo, cache)

	q := StudentBalanceQuery{AdmissionNo: student.FormatAdmissionNumber(2025, 1)}

	first, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, first.Paid.Equal(sampleTotals().Paid))
	assert.Equal(t, 1, repo.totalsCalls)

	// Second read at the same version is served from cache.
	second, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, second.Pending.Equal(first.Pending))
	assert.Equal(t, 1, repo.totalsCalls)
}

func TestStudentBalance_VersionBumpInvalidates(t *testing.T) {
	repo := &stubLedgerRepo{studentTotals: sampleTotals()}
	cache := newFakeBalanceCache()
	h := NewStudentBalanceHandler(repo, cache)

	q := StudentBalanceQuery{AdmissionNo: student.FormatAdmissionNumber(2025, 1)}

	_, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.totalsCalls)

	// A ledger mutation bumps the version; the old entry is never consulted.
	cache.version++
	_, err = h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.totalsCalls)

	// And the recomputed value is cached under the new version.
	_, err = h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.totalsCalls)
}

func TestStudentBalance_OutstandingPlusPaidPartitionsLedger(t *testing.T) {
	totals := sampleTotals()
	repo := &stubLedgerRepo{studentTotals: totals}
	h := NewStudentBalanceHandler(repo, newFakeBalanceCache())

	got, err := h.Handle(context.Background(), StudentBalanceQuery{AdmissionNo: "SL20250001"})
	require.NoError(t, err)
	assert.True(t, got.Paid.Add(got.Pending).Equal(totals.Paid.Add(totals.Pending)))
}
