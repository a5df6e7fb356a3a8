package command

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// fakeStudentRepo is an in-memory student.Repository.
type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[student.AdmissionNumber]*student.Student
	ledger   *fakeLedgerRepo // for cascade on delete
}

func newFakeStudentRepo(ledgerRepo *fakeLedgerRepo) *fakeStudentRepo {
	return &fakeStudentRepo{
		students: make(map[student.AdmissionNumber]*student.Student),
		ledger:   ledgerRepo,
	}
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.AdmissionNo]; ok {
		return shared.ErrStudentAlreadyExists
	}
	cp := *s
	r.students[s.AdmissionNo] = &cp
	return nil
}

func (r *fakeStudentRepo) GetByAdmissionNo(_ context.Context, no student.AdmissionNumber) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[no]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) List(_ context.Context, search string) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*student.Student
	for _, s := range r.students {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) &&
			!strings.Contains(string(s.AdmissionNo), search) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdmissionNo < out[j].AdmissionNo })
	return out, nil
}

func (r *fakeStudentRepo) ListActive(ctx context.Context) ([]*student.Student, error) {
	all, _ := r.List(ctx, "")
	var out []*student.Student
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.AdmissionNo]; !ok {
		return shared.ErrStudentNotFound
	}
	cp := *s
	r.students[s.AdmissionNo] = &cp
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, no student.AdmissionNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[no]; !ok {
		return shared.ErrStudentNotFound
	}
	delete(r.students, no)
	if r.ledger != nil {
		r.ledger.deleteByStudent(no)
	}
	return nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students), nil
}

// fakeSequenceRepo is an in-memory student.SequenceRepository. Counters only
// grow, matching the never-reuse guarantee of the persistent one.
type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[int]int
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[int]int)}
}

func (r *fakeSequenceRepo) Next(_ context.Context, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[year]++
	return r.counters[year], nil
}

// fakeLedgerRepo is an in-memory ledger.Repository with the same
// compare-and-set payment semantics as the PostgreSQL implementation.
type fakeLedgerRepo struct {
	mu           sync.Mutex
	obligations  map[uuid.UUID]*ledger.Obligation
	periods      map[string]uuid.UUID
	remarksCalls int
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		obligations: make(map[uuid.UUID]*ledger.Obligation),
		periods:     make(map[string]uuid.UUID),
	}
}

func periodKey(no student.AdmissionNumber, p ledger.Period) string {
	return string(no) + "|" + p.String()
}

func (r *fakeLedgerRepo) Create(_ context.Context, o *ledger.Obligation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := periodKey(o.AdmissionNo, o.Period)
	if _, ok := r.periods[key]; ok {
		return shared.ErrDuplicateObligation
	}
	cp := *o
	r.obligations[o.ID] = &cp
	r.periods[key] = o.ID
	return nil
}

func (r *fakeLedgerRepo) CreateMissing(_ context.Context, obligations []*ledger.Obligation) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := 0
	for _, o := range obligations {
		key := periodKey(o.AdmissionNo, o.Period)
		if _, ok := r.periods[key]; ok {
			continue
		}
		cp := *o
		r.obligations[o.ID] = &cp
		r.periods[key] = o.ID
		created++
	}
	return created, nil
}

func (r *fakeLedgerRepo) GetByID(_ context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.obligations[id]
	if !ok {
		return nil, shared.ErrObligationNotFound
	}
	return copyObligation(o), nil
}

func (r *fakeLedgerRepo) GetByPeriod(_ context.Context, no student.AdmissionNumber, p ledger.Period) (*ledger.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.periods[periodKey(no, p)]
	if !ok {
		return nil, shared.ErrObligationNotFound
	}
	return copyObligation(r.obligations[id]), nil
}

func (r *fakeLedgerRepo) ListByStudent(_ context.Context, no student.AdmissionNumber) ([]*ledger.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Obligation
	for _, o := range r.obligations {
		if o.AdmissionNo == no {
			out = append(out, copyObligation(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

func (r *fakeLedgerRepo) ListUnpaidByStudent(ctx context.Context, no student.AdmissionNumber) ([]*ledger.Obligation, error) {
	all, _ := r.ListByStudent(ctx, no)
	var out []*ledger.Obligation
	for _, o := range all {
		if !o.Paid() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) RecordPayment(_ context.Context, id uuid.UUID, details ledger.PaymentDetails, at time.Time) (*ledger.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.obligations[id]
	if !ok {
		return nil, shared.ErrObligationNotFound
	}
	if err := o.RecordPayment(details, at); err != nil {
		return nil, err
	}
	return copyObligation(o), nil
}

func (r *fakeLedgerRepo) ReversePayment(_ context.Context, id uuid.UUID, at time.Time) (*ledger.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.obligations[id]
	if !ok {
		return nil, shared.ErrObligationNotFound
	}
	if err := o.ReversePayment(at); err != nil {
		return nil, err
	}
	return copyObligation(o), nil
}

func (r *fakeLedgerRepo) UpdateRemarks(_ context.Context, id uuid.UUID, remarks string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remarksCalls++
	o, ok := r.obligations[id]
	if !ok {
		return shared.ErrObligationNotFound
	}
	o.Remarks = remarks
	o.UpdatedAt = at
	return nil
}

func (r *fakeLedgerRepo) TotalsByStudent(_ context.Context, no student.AdmissionNumber) (ledger.StudentTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := ledger.StudentTotals{Paid: decimal.Zero, Pending: decimal.Zero}
	for _, o := range r.obligations {
		if o.AdmissionNo != no {
			continue
		}
		if o.Paid() {
			totals.Paid = totals.Paid.Add(o.AmountDue)
		} else {
			totals.Pending = totals.Pending.Add(o.AmountDue)
		}
	}
	return totals, nil
}

func (r *fakeLedgerRepo) InstituteTotals(_ context.Context) (ledger.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summarize(func(*ledger.Obligation) bool { return true }), nil
}

func (r *fakeLedgerRepo) PeriodTotals(_ context.Context, p ledger.Period) (ledger.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summarize(func(o *ledger.Obligation) bool { return o.Period == p }), nil
}

func (r *fakeLedgerRepo) summarize(match func(*ledger.Obligation) bool) ledger.Summary {
	s := ledger.Summary{TotalCollected: decimal.Zero, TotalPending: decimal.Zero}
	for _, o := range r.obligations {
		if !match(o) {
			continue
		}
		if o.Paid() {
			s.TotalCollected = s.TotalCollected.Add(o.AmountDue)
			s.PaidCount++
		} else {
			s.TotalPending = s.TotalPending.Add(o.AmountDue)
			s.PendingCount++
		}
	}
	return s
}

func (r *fakeLedgerRepo) ExportRows(_ context.Context) ([]ledger.ExportRow, error) {
	return nil, nil
}

func (r *fakeLedgerRepo) deleteByStudent(no student.AdmissionNumber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.obligations {
		if o.AdmissionNo == no {
			delete(r.periods, periodKey(o.AdmissionNo, o.Period))
			delete(r.obligations, id)
		}
	}
}

func copyObligation(o *ledger.Obligation) *ledger.Obligation {
	cp := *o
	if o.Payment != nil {
		payment := *o.Payment
		cp.Payment = &payment
	}
	return &cp
}

// fakeVersionStore is an in-memory ledger.VersionStore.
type fakeVersionStore struct {
	version atomic.Int64
}

func (v *fakeVersionStore) Current(context.Context) (int64, error) {
	return v.version.Load(), nil
}

func (v *fakeVersionStore) Bump(context.Context) (int64, error) {
	return v.version.Add(1), nil
}
