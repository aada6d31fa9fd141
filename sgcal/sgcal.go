/*
Package sgcal provides Singapore civil-calendar primitives.

PURPOSE:
  Shift classification and payroll cutoffs depend on the calendar day a
  thing happened in Singapore, not wherever the server or browser runs.
  This package converts instants to Singapore civil dates and answers
  Sunday/public-holiday questions against a gazetted holiday table.

KEY CONCEPTS IN THIS FILE (sgcal.go):
  - Location: fixed UTC+8 zone. Singapore does not observe daylight
    saving, so a fixed offset is correct for all instants.
  - Date: a civil date (year/month/day) with ISO formatting and weekday
    helpers. Used as the classification key for shifts.

SEE ALSO:
  - calendar.go: Public-holiday table and lookup semantics
*/
package sgcal

import (
	"fmt"
	"time"
)

// Location is Singapore Standard Time. Fixed offset, no DST.
var Location = time.FixedZone("Asia/Singapore", 8*60*60)

// =============================================================================
// DATE - Civil date in the Singapore calendar
// =============================================================================

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, Location)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the Singapore civil date an instant falls on.
// A shift clocked at 00:30 SGT belongs to that SGT day even when the
// instant's own zone says otherwise.
func DateOf(t time.Time) Date {
	local := t.In(Location)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Today returns the current Singapore civil date.
func Today() Date {
	return DateOf(time.Now())
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) String() string { return d.ISO() }

// Time returns midnight SGT on this date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Location)
}

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsSunday() bool        { return d.Weekday() == time.Sunday }
func (d Date) IsZero() bool          { return d == Date{} }

func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool  { return d.Time().After(other.Time()) }

// MonthKey formats the date's month as YYYY-MM, the key used for
// per-month shift and payslip queries.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}
