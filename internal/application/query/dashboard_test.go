package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

func dashboardRepo() *stubLedgerRepo {
	return &stubLedgerRepo{
		periodSummary: ledger.Summary{
			TotalCollected: decimal.NewFromInt(1200),
			TotalPending:   decimal.NewFromInt(300),
			PaidCount:      4,
			PendingCount:   1,
		},
		instituteSummary: ledger.Summary{
			TotalCollected: decimal.NewFromInt(9000),
			TotalPending:   decimal.NewFromInt(2100),
			PaidCount:      30,
			PendingCount:   7,
		},
	}
}

func TestDashboard(t *testing.T) {
	repo := dashboardRepo()
	students := newStubStudentRepo(
		&student.Student{AdmissionNo: "SL20250001", Name: "Aarav Kumar"},
		&student.Student{AdmissionNo: "SL20250002", Name: "Meera Singh"},
	)
	h := NewDashboardHandler(students, repo, newFakeBalanceCache())

	sum, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.StudentCount)
	assert.True(t, sum.CurrentMonth.TotalCollected.Equal(decimal.NewFromInt(1200)))
	assert.True(t, sum.AllTime.TotalPending.Equal(decimal.NewFromInt(2100)))
	assert.Equal(t, 30, sum.AllTime.PaidCount)
}

func TestDashboard_ServesFromCache(t *testing.T) {
	repo := dashboardRepo()
	h := NewDashboardHandler(newStubStudentRepo(), repo, newFakeBalanceCache())

	_, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.periodCalls)
	assert.Equal(t, 1, repo.instituteCalls)

	_, err = h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.periodCalls, "second read hits the cache")
	assert.Equal(t, 1, repo.instituteCalls)
}

func TestDashboard_CacheKeysCarryPeriod(t *testing.T) {
	repo := dashboardRepo()
	cache := newFakeBalanceCache()
	h := NewDashboardHandler(newStubStudentRepo(), repo, cache)

	_, err := h.Handle(context.Background())
	require.NoError(t, err)

	month, year := timeutil.CurrentPeriod()
	_, ok := cache.Summary(context.Background(), 0, fmt.Sprintf("period:%d-%02d", year, month))
	assert.True(t, ok)
	_, ok = cache.Summary(context.Background(), 0, "institute")
	assert.True(t, ok)
}

func TestFeeHistory(t *testing.T) {
	now := time.Now()
	stu := &student.Student{
		AdmissionNo: student.FormatAdmissionNumber(2025, 1),
		Name:        "Aarav Kumar",
	}

	march, err := ledger.NewObligation(stu.AdmissionNo, ledger.Period{Month: 3, Year: 2025}, decimal.NewFromInt(300), now)
	require.NoError(t, err)
	april, err := ledger.NewObligation(stu.AdmissionNo, ledger.Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	repo := &stubLedgerRepo{
		studentTotals: sampleTotals(),
		obligations:   []*ledger.Obligation{march, april},
	}
	students := newStubStudentRepo(stu)
	balances := NewStudentBalanceHandler(repo, newFakeBalanceCache())
	h := NewFeeHistoryHandler(students, repo, balances)

	history, err := h.Handle(context.Background(), FeeHistoryQuery{AdmissionNo: stu.AdmissionNo})
	require.NoError(t, err)
	assert.Equal(t, stu.Name, history.Student.Name)
	assert.Len(t, history.Obligations, 2)
	assert.True(t, history.Totals.Paid.Equal(sampleTotals().Paid))

	_, err = h.Handle(context.Background(), FeeHistoryQuery{AdmissionNo: "SL20250099"})
	assert.Error(t, err)
}
