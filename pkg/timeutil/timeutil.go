// Package timeutil provides timezone and billing-period utilities for the
// Sansa Learn fee ledger. The institute operates in Patna, India (IST, UTC+5:30),
// so payment dates and fee periods are interpreted in that timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// InstituteTZ is the institute timezone (IST, UTC+5:30, no DST).
var InstituteTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in the institute timezone.
func Now() time.Time {
	return time.Now().In(InstituteTZ)
}

// ToInstitute converts a time to the institute timezone.
func ToInstitute(t time.Time) time.Time {
	return t.In(InstituteTZ)
}

// Date creates a time in the institute timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, InstituteTZ)
}

// StartOfMonth returns the first day of t's month at 00:00:00 institute time.
func StartOfMonth(t time.Time) time.Time {
	local := ToInstitute(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, InstituteTZ)
}

// NextMonth returns the first day of the month following t.
func NextMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}

// CurrentPeriod returns the (month, year) of the current institute-local month.
func CurrentPeriod() (month, year int) {
	now := Now()
	return int(now.Month()), now.Year()
}

// PeriodOf returns the (month, year) of t in institute time.
func PeriodOf(t time.Time) (month, year int) {
	local := ToInstitute(t)
	return int(local.Month()), local.Year()
}

// MonthsBetween returns the first day of every month from the month of `from`
// through the month of `to`, inclusive. Returns nil if `from` is after `to`.
func MonthsBetween(from, to time.Time) []time.Time {
	start := StartOfMonth(from)
	end := StartOfMonth(to)
	if start.After(end) {
		return nil
	}

	var months []time.Time
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		months = append(months, cursor)
	}
	return months
}

// MonthName returns the English month name for month numbers 1-12,
// or an empty string for anything else.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// FormatDate formats t as YYYY-MM-DD in institute time, the format used on
// receipts and demand bills.
func FormatDate(t time.Time) string {
	return ToInstitute(t).Format("2006-01-02")
}
