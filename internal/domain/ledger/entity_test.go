package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

func TestPeriod_Validate(t *testing.T) {
	assert.NoError(t, Period{Month: 1, Year: 2025}.Validate())
	assert.NoError(t, Period{Month: 12, Year: 1900}.Validate())

	assert.ErrorIs(t, Period{Month: 0, Year: 2025}.Validate(), shared.ErrInvalidPeriod)
	assert.ErrorIs(t, Period{Month: 13, Year: 2025}.Validate(), shared.ErrInvalidPeriod)
	assert.ErrorIs(t, Period{Month: 6, Year: 1899}.Validate(), shared.ErrInvalidPeriod)
}

func TestPeriod_Before(t *testing.T) {
	assert.True(t, Period{Month: 12, Year: 2024}.Before(Period{Month: 1, Year: 2025}))
	assert.True(t, Period{Month: 3, Year: 2025}.Before(Period{Month: 4, Year: 2025}))
	assert.False(t, Period{Month: 4, Year: 2025}.Before(Period{Month: 4, Year: 2025}))
	assert.False(t, Period{Month: 5, Year: 2025}.Before(Period{Month: 4, Year: 2025}))
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "January 2025", Period{Month: 1, Year: 2025}.String())
	assert.Equal(t, "December 2024", Period{Month: 12, Year: 2024}.String())
}

func TestNewObligation(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	no := student.FormatAdmissionNumber(2025, 1)

	o, err := NewObligation(no, Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)
	assert.Equal(t, no, o.AdmissionNo)
	assert.False(t, o.Paid())
	assert.Nil(t, o.Payment)

	_, err = NewObligation(no, Period{Month: 0, Year: 2025}, decimal.NewFromInt(500), now)
	assert.ErrorIs(t, err, shared.ErrInvalidPeriod)

	_, err = NewObligation(no, Period{Month: 4, Year: 2025}, decimal.NewFromInt(-1), now)
	assert.Error(t, err)
}

func TestObligation_RecordPayment(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	o, err := NewObligation(student.FormatAdmissionNumber(2025, 1), Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	details := PaymentDetails{Date: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), Mode: "Cash"}
	require.NoError(t, o.RecordPayment(details, now))
	assert.True(t, o.Paid())
	assert.Equal(t, "Cash", o.Payment.Mode)

	// A second recording must be rejected, never silently overwritten.
	err = o.RecordPayment(PaymentDetails{Date: details.Date, Mode: "UPI"}, now)
	assert.ErrorIs(t, err, shared.ErrAlreadyPaid)
	assert.Equal(t, "Cash", o.Payment.Mode)
}

func TestObligation_RecordPayment_StampsRemarks(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	o, err := NewObligation(student.FormatAdmissionNumber(2025, 1), Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)
	o.Remarks = "late fee waived"

	// Empty remarks leave the existing text alone.
	require.NoError(t, o.RecordPayment(PaymentDetails{Date: now, Mode: "Cash"}, now))
	assert.Equal(t, "late fee waived", o.Remarks)

	require.NoError(t, o.ReversePayment(now))
	require.NoError(t, o.RecordPayment(PaymentDetails{Date: now, Mode: "UPI", Remarks: "paid online"}, now))
	assert.Equal(t, "paid online", o.Remarks)
}

func TestObligation_RecordPayment_RequiresDateAndMode(t *testing.T) {
	now := time.Now()
	o, err := NewObligation(student.FormatAdmissionNumber(2025, 1), Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	assert.Error(t, o.RecordPayment(PaymentDetails{Mode: "Cash"}, now))
	assert.Error(t, o.RecordPayment(PaymentDetails{Date: now}, now))
	assert.False(t, o.Paid())
}

func TestObligation_ReversePayment(t *testing.T) {
	now := time.Now()
	o, err := NewObligation(student.FormatAdmissionNumber(2025, 1), Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	assert.ErrorIs(t, o.ReversePayment(now), shared.ErrNotPaid)

	require.NoError(t, o.RecordPayment(PaymentDetails{Date: now, Mode: "Cash"}, now))
	require.NoError(t, o.ReversePayment(now))
	assert.False(t, o.Paid())
	assert.Nil(t, o.Payment)
}

func TestObligation_ReceiptNumber(t *testing.T) {
	now := time.Now()
	o, err := NewObligation(student.FormatAdmissionNumber(2025, 1), Period{Month: 4, Year: 2025}, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	rn := o.ReceiptNumber()
	assert.Contains(t, rn, "REC202504-")
	assert.Len(t, rn, len("REC202504-")+8)

	// Derived from immutable fields only: a reprint carries the same number.
	require.NoError(t, o.RecordPayment(PaymentDetails{Date: now, Mode: "Cash"}, now))
	assert.Equal(t, rn, o.ReceiptNumber())
}
