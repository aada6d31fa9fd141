/*
Package shift implements the shift-hours calculation engine.

PURPOSE:
  Converts raw clock-in/out/break timestamps into the hour categories
  payroll cares about: basic hours, overtime, and Sunday/public-holiday
  hours. All functions are pure; callers persist and display results.

KEY CONCEPTS IN THIS FILE (types.go):
  - BreakInterval: one pause inside a shift, possibly still open
  - BreakInput: sealed union over the two break shapes callers supply
  - HoursBreakdown: the rounded result record

DESIGN PRINCIPLES:
  1. Purity: no I/O, no shared state, safe for concurrent callers
  2. Precision: decimal.Decimal throughout, rounded once at the boundary
  3. Degradation over faults: malformed inputs yield the zero breakdown

SEE ALSO:
  - hours.go: The calculation itself
  - geo.go: Geofence distance for clock-in gating
*/
package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BREAK INPUT - Two caller-facing shapes, one internal representation
// =============================================================================

// BreakInterval is a single pause within a shift. End is nil while the
// break is still open; open breaks do not contribute to break hours.
type BreakInterval struct {
	Start time.Time
	End   *time.Time
}

// Closed reports whether both bounds are present and ordered.
func (b BreakInterval) Closed() bool {
	return !b.Start.IsZero() && b.End != nil && !b.End.IsZero() && !b.End.Before(b.Start)
}

// BreakInput is the sealed union of accepted break shapes. Callers pass
// either Intervals or LegacyLunch; both normalize to an interval slice
// consumed by a single code path.
type BreakInput interface {
	breakIntervals() []BreakInterval
}

// Intervals is the current shape: an ordered sequence of break intervals.
type Intervals []BreakInterval

func (iv Intervals) breakIntervals() []BreakInterval { return iv }

// LegacyLunch is the historic shape: one lunch break expressed as two
// scalar instants. Kept for older call sites; either bound missing means
// no break at all.
type LegacyLunch struct {
	Start time.Time
	End   time.Time
}

func (l LegacyLunch) breakIntervals() []BreakInterval {
	if l.Start.IsZero() || l.End.IsZero() {
		return nil
	}
	end := l.End
	return []BreakInterval{{Start: l.Start, End: &end}}
}

// NoBreaks is the empty break input.
var NoBreaks BreakInput = Intervals(nil)

// =============================================================================
// RESULT
// =============================================================================

// HoursBreakdown is the computed hour split for one shift. Field names
// are a persistence/display contract; downstream consumers key off them.
// All values are non-negative and rounded to 2 decimal places.
type HoursBreakdown struct {
	BasicHours     decimal.Decimal `json:"basicHours"`
	SundayHours    decimal.Decimal `json:"sundayHours"`
	OTHours        decimal.Decimal `json:"otHours"`
	TotalDuration  decimal.Decimal `json:"totalDuration"`
	NetWorkedHours decimal.Decimal `json:"netWorkedHours"`
	BreakHours     decimal.Decimal `json:"breakHours"`
	BasicDay       decimal.Decimal `json:"basicDay"`
}

// ZeroBreakdown is returned for shifts that are not yet computable
// (still open, or with malformed timestamps). Not a fault.
func ZeroBreakdown() HoursBreakdown {
	return HoursBreakdown{
		BasicHours:     decimal.Zero,
		SundayHours:    decimal.Zero,
		OTHours:        decimal.Zero,
		TotalDuration:  decimal.Zero,
		NetWorkedHours: decimal.Zero,
		BreakHours:     decimal.Zero,
		BasicDay:       decimal.Zero,
	}
}

// IsZero reports whether every field of the breakdown is zero.
func (h HoursBreakdown) IsZero() bool {
	return h.BasicHours.IsZero() && h.SundayHours.IsZero() && h.OTHours.IsZero() &&
		h.TotalDuration.IsZero() && h.NetWorkedHours.IsZero() &&
		h.BreakHours.IsZero() && h.BasicDay.IsZero()
}
