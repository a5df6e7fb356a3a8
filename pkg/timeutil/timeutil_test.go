package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthsBetween(t *testing.T) {
	from := Date(2025, 1, 15)
	to := Date(2025, 4, 2)

	months := MonthsBetween(from, to)
	assert.Len(t, months, 4)
	assert.Equal(t, Date(2025, 1, 1), months[0])
	assert.Equal(t, Date(2025, 4, 1), months[3])

	// Same month yields exactly one entry.
	assert.Len(t, MonthsBetween(Date(2025, 4, 1), Date(2025, 4, 30)), 1)

	// Year boundary.
	wrap := MonthsBetween(Date(2024, 11, 20), Date(2025, 2, 1))
	assert.Len(t, wrap, 4)
	assert.Equal(t, Date(2024, 12, 1), wrap[1])

	// Inverted range is empty.
	assert.Nil(t, MonthsBetween(Date(2025, 5, 1), Date(2025, 4, 1)))
}

func TestPeriodOf(t *testing.T) {
	// 2025-03-31 23:00 UTC is already April in IST.
	month, year := PeriodOf(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, 4, month)
	assert.Equal(t, 2025, year)

	month, year = PeriodOf(Date(2025, 3, 31))
	assert.Equal(t, 3, month)
	assert.Equal(t, 2025, year)
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(Date(2025, 4, 17))
	assert.Equal(t, Date(2025, 4, 1), got)

	assert.Equal(t, Date(2025, 5, 1), NextMonth(Date(2025, 4, 17)))
	assert.Equal(t, Date(2026, 1, 1), NextMonth(Date(2025, 12, 31)))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-04-01", FormatDate(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-31", FormatDate(Date(2025, 3, 31)))
}
