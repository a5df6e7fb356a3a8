package student

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
)

func TestFormatAdmissionNumber(t *testing.T) {
	assert.Equal(t, AdmissionNumber("SL20250001"), FormatAdmissionNumber(2025, 1))
	assert.Equal(t, AdmissionNumber("SL20250042"), FormatAdmissionNumber(2025, 42))
	assert.Equal(t, AdmissionNumber("SL20259999"), FormatAdmissionNumber(2025, 9999))

	// Sequence values past four digits widen instead of wrapping.
	assert.Equal(t, AdmissionNumber("SL202510000"), FormatAdmissionNumber(2025, 10000))
}

func TestAdmissionNumber_IsValid(t *testing.T) {
	assert.True(t, AdmissionNumber("SL20250001").IsValid())
	assert.True(t, AdmissionNumber("SL202510000").IsValid())

	assert.False(t, AdmissionNumber("").IsValid())
	assert.False(t, AdmissionNumber("XX20250001").IsValid())
	assert.False(t, AdmissionNumber("SL2025").IsValid())
	assert.False(t, AdmissionNumber("SL2025000a").IsValid())
}

func TestStudent_Validate(t *testing.T) {
	valid := func() *Student {
		return &Student{
			AdmissionNo:   FormatAdmissionNumber(2025, 1),
			Name:          "Aarav Kumar",
			FeePerMonth:   decimal.NewFromInt(500),
			Discount:      decimal.NewFromInt(50),
			AdmissionDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		}
	}

	assert.NoError(t, valid().Validate())

	s := valid()
	s.AdmissionNo = "bogus"
	assert.Error(t, s.Validate())

	s = valid()
	s.Name = "   "
	assert.Error(t, s.Validate())

	s = valid()
	s.FeePerMonth = decimal.NewFromInt(-1)
	assert.Error(t, s.Validate())

	s = valid()
	s.Discount = decimal.NewFromInt(600)
	err := s.Validate()
	assert.ErrorIs(t, err, shared.ErrInvalidFeePlan)
}

func TestStudent_NetMonthlyFee(t *testing.T) {
	s := &Student{
		FeePerMonth: decimal.RequireFromString("500.50"),
		Discount:    decimal.RequireFromString("100.25"),
	}
	assert.True(t, s.NetMonthlyFee().Equal(decimal.RequireFromString("400.25")))

	// Full discount yields a zero obligation, which is still valid.
	s.Discount = s.FeePerMonth
	assert.True(t, s.NetMonthlyFee().IsZero())
}
