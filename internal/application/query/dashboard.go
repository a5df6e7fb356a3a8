package query

import (
	"context"
	"fmt"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// DashboardSummary is the institute-wide view served to the dashboard.
type DashboardSummary struct {
	// StudentCount is the number of registered students.
	StudentCount int

	// CurrentMonth holds collected/pending totals for the current period.
	CurrentMonth ledger.Summary

	// AllTime holds collected/pending totals across the whole ledger.
	AllTime ledger.Summary
}

// DashboardHandler derives institute-wide statistics from the ledger.
// Read-only; totals come from the same exact-decimal sums that appear on
// documents, optionally served from the version-keyed cache.
type DashboardHandler struct {
	students student.Repository
	ledger   ledger.Repository
	cache    BalanceCache
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(students student.Repository, ledgerRepo ledger.Repository, cache BalanceCache) *DashboardHandler {
	return &DashboardHandler{students: students, ledger: ledgerRepo, cache: cache}
}

// Handle returns the dashboard summary for the current institute-local month.
func (h *DashboardHandler) Handle(ctx context.Context) (*DashboardSummary, error) {
	month, year := timeutil.CurrentPeriod()
	period := ledger.Period{Month: month, Year: year}
	version := h.cache.Version(ctx)

	currentKey := fmt.Sprintf("period:%d-%02d", year, month)
	current, ok := h.cache.Summary(ctx, version, currentKey)
	if !ok {
		var err error
		current, err = h.ledger.PeriodTotals(ctx, period)
		if err != nil {
			return nil, err
		}
		h.cache.PutSummary(ctx, version, currentKey, current)
	}

	allTime, ok := h.cache.Summary(ctx, version, "institute")
	if !ok {
		var err error
		allTime, err = h.ledger.InstituteTotals(ctx)
		if err != nil {
			return nil, err
		}
		h.cache.PutSummary(ctx, version, "institute", allTime)
	}

	count, err := h.students.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		StudentCount: count,
		CurrentMonth: current,
		AllTime:      allTime,
	}, nil
}
