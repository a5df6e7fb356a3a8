package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

func registerFixture() RegisterStudentCommand {
	// Admission two months back so seeding covers three periods including
	// the current one.
	admission := timeutil.Now().AddDate(0, -2, 0)
	return RegisterStudentCommand{
		Name:          "Aarav Kumar",
		FatherName:    "Rajesh Kumar",
		Class:         "5",
		Mobile:        "9000000001",
		FeePerMonth:   decimal.NewFromInt(500),
		Discount:      decimal.NewFromInt(100),
		AdmissionDate: admission,
	}
}

func TestRegisterStudent_SeedsObligations(t *testing.T) {
	ledgerRepo := newFakeLedgerRepo()
	students := newFakeStudentRepo(ledgerRepo)
	versions := &fakeVersionStore{}
	h := NewRegisterStudentHandler(students, newFakeSequenceRepo(), ledgerRepo, versions)

	cmd := registerFixture()
	res, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	expected := len(timeutil.MonthsBetween(cmd.AdmissionDate, timeutil.Now()))
	assert.Equal(t, expected, res.ObligationsSeeded)
	assert.True(t, res.Student.Active)

	history, err := ledgerRepo.ListByStudent(context.Background(), res.Student.AdmissionNo)
	require.NoError(t, err)
	require.Len(t, history, expected)
	for _, o := range history {
		// Seeded amounts use the net fee, not the gross one.
		assert.True(t, o.AmountDue.Equal(decimal.NewFromInt(400)))
		assert.False(t, o.Paid())
	}

	v, _ := versions.Current(context.Background())
	assert.Equal(t, int64(1), v)
}

func TestRegisterStudent_AdmissionNumbersMonotonic(t *testing.T) {
	ledgerRepo := newFakeLedgerRepo()
	students := newFakeStudentRepo(ledgerRepo)
	versions := &fakeVersionStore{}
	h := NewRegisterStudentHandler(students, newFakeSequenceRepo(), ledgerRepo, versions)

	first, err := h.Handle(context.Background(), registerFixture())
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), registerFixture())
	require.NoError(t, err)

	year := timeutil.Now().Year()
	assert.Equal(t, student.FormatAdmissionNumber(year, 1), first.Student.AdmissionNo)
	assert.Equal(t, student.FormatAdmissionNumber(year, 2), second.Student.AdmissionNo)

	// Deleting a student must not free their number for reuse.
	deleter := NewDeleteStudentHandler(students, versions)
	require.NoError(t, deleter.Handle(context.Background(), DeleteStudentCommand{AdmissionNo: second.Student.AdmissionNo}))

	third, err := h.Handle(context.Background(), registerFixture())
	require.NoError(t, err)
	assert.Equal(t, student.FormatAdmissionNumber(year, 3), third.Student.AdmissionNo)
}

func TestRegisterStudent_Validation(t *testing.T) {
	h := NewRegisterStudentHandler(newFakeStudentRepo(nil), newFakeSequenceRepo(), newFakeLedgerRepo(), &fakeVersionStore{})

	cmd := registerFixture()
	cmd.Name = "  "
	_, err := h.Handle(context.Background(), cmd)
	assert.Error(t, err)

	cmd = registerFixture()
	cmd.FeePerMonth = decimal.NewFromInt(-5)
	_, err = h.Handle(context.Background(), cmd)
	assert.Error(t, err)
}

func TestEnsureObligations_BackfillIsIdempotent(t *testing.T) {
	ledgerRepo := newFakeLedgerRepo()
	students := newFakeStudentRepo(ledgerRepo)
	versions := &fakeVersionStore{}

	reg := NewRegisterStudentHandler(students, newFakeSequenceRepo(), ledgerRepo, versions)
	res, err := reg.Handle(context.Background(), registerFixture())
	require.NoError(t, err)

	ensure := NewEnsureObligationsHandler(students, ledgerRepo, versions)
	created, err := ensure.Handle(context.Background(), EnsureObligationsCommand{AdmissionNo: res.Student.AdmissionNo})
	require.NoError(t, err)
	assert.Zero(t, created, "registration already seeded every month")

	v, _ := versions.Current(context.Background())
	assert.Equal(t, int64(1), v, "no-op backfill must not bump the version")
}
