/*
hours.go - Shift hour categorization

PURPOSE:
  The single calculation that turns a closed shift into payroll hour
  buckets. Overtime is measured against net worked time (breaks
  excluded), capped by the 8-hour basic day, and only on ordinary days:
  Sunday and public-holiday work goes wholly into its own bucket with no
  basic-day credit, mirroring Employment Act categorization.

SEE ALSO:
  - types.go: Input/output shapes
  - sgcal/calendar.go: Holiday classification
*/
package shift

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lioncity/timegrid/sgcal"
)

// BasicDayHours is the basic-day threshold: net worked hours beyond it
// count as overtime on ordinary days.
var BasicDayHours = decimal.NewFromInt(8)

var secondsPerHour = decimal.NewFromInt(3600)

// Calculator classifies shifts against a holiday calendar. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	Calendar *sgcal.Calendar
}

func NewCalculator(cal *sgcal.Calendar) *Calculator {
	return &Calculator{Calendar: cal}
}

// ComputeShiftHours derives the hour breakdown for one shift.
//
// leave is nil while the shift is still open; that yields the zero
// breakdown, signaling "not yet computable" rather than an error. A
// leave before entry clamps to zero duration (clock skew, bad entry).
// workDate decides Sunday/holiday classification only - shifts may cross
// midnight and are never clipped to the calendar day.
func (c *Calculator) ComputeShiftHours(entry time.Time, leave *time.Time, breaks BreakInput, workDate sgcal.Date) HoursBreakdown {
	if entry.IsZero() || leave == nil || leave.IsZero() {
		return ZeroBreakdown()
	}

	total := hoursBetween(entry, *leave)

	breakHours := decimal.Zero
	if breaks != nil {
		for _, b := range breaks.breakIntervals() {
			if !b.Closed() {
				continue
			}
			breakHours = breakHours.Add(hoursBetween(b.Start, *b.End))
		}
	}

	net := total.Sub(breakHours)
	if net.IsNegative() {
		net = decimal.Zero
	}

	out := HoursBreakdown{
		TotalDuration:  total.Round(2),
		BreakHours:     breakHours.Round(2),
		NetWorkedHours: net.Round(2),
		BasicHours:     decimal.Zero,
		SundayHours:    decimal.Zero,
		OTHours:        decimal.Zero,
		BasicDay:       decimal.Zero,
	}

	if c.isSundayOrHoliday(workDate) {
		out.SundayHours = net.Round(2)
		return out
	}

	basic := decimal.Min(BasicDayHours, net)
	ot := net.Sub(BasicDayHours)
	if ot.IsNegative() {
		ot = decimal.Zero
	}

	out.BasicHours = basic.Round(2)
	out.OTHours = ot.Round(2)
	out.BasicDay = basic.Div(BasicDayHours).Round(2)
	return out
}

func (c *Calculator) isSundayOrHoliday(d sgcal.Date) bool {
	if d.IsSunday() {
		return true
	}
	return c.Calendar != nil && c.Calendar.IsPublicHoliday(d)
}

// hoursBetween returns the non-negative hour span between two instants.
func hoursBetween(from, to time.Time) decimal.Decimal {
	if !to.After(from) {
		return decimal.Zero
	}
	seconds := decimal.NewFromInt(int64(to.Sub(from) / time.Second))
	return seconds.Div(secondsPerHour)
}
