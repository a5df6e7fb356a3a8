package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// fakeBalanceCache is an in-memory BalanceCache with version-keyed entries,
// mirroring the redis implementation's key scheme.
type fakeBalanceCache struct {
	version  int64
	totals   map[string]ledger.StudentTotals
	summary  map[string]ledger.Summary
	putCount int
}

func newFakeBalanceCache() *fakeBalanceCache {
	return &fakeBalanceCache{
		totals:  make(map[string]ledger.StudentTotals),
		summary: make(map[string]ledger.Summary),
	}
}

func (c *fakeBalanceCache) Version(context.Context) int64 { return c.version }

func (c *fakeBalanceCache) StudentTotals(_ context.Context, version int64, no student.AdmissionNumber) (ledger.StudentTotals, bool) {
	t, ok := c.totals[fmt.Sprintf("%d|%s", version, no)]
	return t, ok
}

func (c *fakeBalanceCache) PutStudentTotals(_ context.Context, version int64, no student.AdmissionNumber, t ledger.StudentTotals) {
	c.totals[fmt.Sprintf("%d|%s", version, no)] = t
	c.putCount++
}

func (c *fakeBalanceCache) Summary(_ context.Context, version int64, key string) (ledger.Summary, bool) {
	s, ok := c.summary[fmt.Sprintf("%d|%s", version, key)]
	return s, ok
}

func (c *fakeBalanceCache) PutSummary(_ context.Context, version int64, key string, s ledger.Summary) {
	c.summary[fmt.Sprintf("%d|%s", version, key)] = s
	c.putCount++
}

// stubLedgerRepo serves canned aggregates and counts recomputations so tests
// can tell a cache hit from a recompute.
type stubLedgerRepo struct {
	studentTotals    ledger.StudentTotals
	periodSummary    ledger.Summary
	instituteSummary ledger.Summary
	obligations      []*ledger.Obligation

	totalsCalls    int
	periodCalls    int
	instituteCalls int
}

func (r *stubLedgerRepo) Create(context.Context, *ledger.Obligation) error { return nil }

func (r *stubLedgerRepo) CreateMissing(context.Context, []*ledger.Obligation) (int, error) {
	return 0, nil
}

func (r *stubLedgerRepo) GetByID(_ context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	for _, o := range r.obligations {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, shared.ErrObligationNotFound
}

func (r *stubLedgerRepo) GetByPeriod(context.Context, student.AdmissionNumber, ledger.Period) (*ledger.Obligation, error) {
	return nil, shared.ErrObligationNotFound
}

func (r *stubLedgerRepo) ListByStudent(context.Context, student.AdmissionNumber) ([]*ledger.Obligation, error) {
	return r.obligations, nil
}

func (r *stubLedgerRepo) ListUnpaidByStudent(context.Context, student.AdmissionNumber) ([]*ledger.Obligation, error) {
	var out []*ledger.Obligation
	for _, o := range r.obligations {
		if !o.Paid() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) RecordPayment(context.Context, uuid.UUID, ledger.PaymentDetails, time.Time) (*ledger.Obligation, error) {
	return nil, shared.ErrObligationNotFound
}

func (r *stubLedgerRepo) ReversePayment(context.Context, uuid.UUID, time.Time) (*ledger.Obligation, error) {
	return nil, shared.ErrObligationNotFound
}

func (r *stubLedgerRepo) UpdateRemarks(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}

func (r *stubLedgerRepo) TotalsByStudent(context.Context, student.AdmissionNumber) (ledger.StudentTotals, error) {
	r.totalsCalls++
	return r.studentTotals, nil
}

func (r *stubLedgerRepo) InstituteTotals(context.Context) (ledger.Summary, error) {
	r.instituteCalls++
	return r.instituteSummary, nil
}

func (r *stubLedgerRepo) PeriodTotals(context.Context, ledger.Period) (ledger.Summary, error) {
	r.periodCalls++
	return r.periodSummary, nil
}

func (r *stubLedgerRepo) ExportRows(context.Context) ([]ledger.ExportRow, error) { return nil, nil }

// stubStudentRepo holds a fixed set of students.
type stubStudentRepo struct {
	students map[student.AdmissionNumber]*student.Student
}

func newStubStudentRepo(students ...*student.Student) *stubStudentRepo {
	m := make(map[student.AdmissionNumber]*student.Student)
	for _, s := range students {
		m[s.AdmissionNo] = s
	}
	return &stubStudentRepo{students: m}
}

func (r *stubStudentRepo) Create(context.Context, *student.Student) error { return nil }

func (r *stubStudentRepo) GetByAdmissionNo(_ context.Context, no student.AdmissionNumber) (*student.Student, error) {
	s, ok := r.students[no]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s, nil
}

func (r *stubStudentRepo) List(context.Context, string) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubStudentRepo) ListActive(ctx context.Context) ([]*student.Student, error) {
	return r.List(ctx, "")
}

func (r *stubStudentRepo) Update(context.Context, *student.Student) error          { return nil }
func (r *stubStudentRepo) Delete(context.Context, student.AdmissionNumber) error   { return nil }
func (r *stubStudentRepo) Count(context.Context) (int, error)                      { return len(r.students), nil }

func sampleTotals() ledger.StudentTotals {
	return ledger.StudentTotals{
		Paid:    decimal.NewFromInt(1500),
		Pending: decimal.NewFromInt(500),
	}
}
