/*
levy.go - SINDA and SDL contributions

SINDA:
  Flat monthly community-fund amount, banded by wage. Not a percentage;
  the band table is the whole rule. Upper bounds are inclusive.

SDL:
  Skills Development Levy. The wage is capped at the ceiling before the
  percentage applies, then the result is clamped between floor and cap:
  clamp(min(wages, 4500) * 0.25%, 2.00, 11.25).
*/
package statutory

import "github.com/shopspring/decimal"

// =============================================================================
// SINDA WAGE BANDS - Flat monthly amounts, inclusive upper bounds
// =============================================================================

type sindaBand struct {
	maxWage decimal.Decimal // inclusive
	amount  decimal.Decimal
}

var sindaBands = []sindaBand{
	{decimal.NewFromInt(1000), decimal.NewFromFloat(2.00)},
	{decimal.NewFromInt(1500), decimal.NewFromFloat(3.00)},
	{decimal.NewFromInt(2500), decimal.NewFromFloat(5.00)},
	{decimal.NewFromInt(4500), decimal.NewFromFloat(7.00)},
	{decimal.NewFromInt(7500), decimal.NewFromFloat(9.00)},
	{decimal.NewFromInt(10000), decimal.NewFromFloat(12.00)},
	{decimal.NewFromInt(15000), decimal.NewFromFloat(18.00)},
}

// Above the last band boundary.
var sindaAbove15000 = decimal.NewFromFloat(30.00)

// ComputeSINDA returns the flat SINDA contribution for a monthly wage.
func ComputeSINDA(employeeMonthlyWages decimal.Decimal) decimal.Decimal {
	for _, b := range sindaBands {
		if employeeMonthlyWages.LessThanOrEqual(b.maxWage) {
			return b.amount
		}
	}
	return sindaAbove15000
}

// =============================================================================
// SDL
// =============================================================================

var (
	sdlWageCeiling = decimal.NewFromInt(4500)
	sdlRate        = decimal.NewFromFloat(0.0025)
	sdlFloor       = decimal.NewFromFloat(2.00)
	sdlCap         = decimal.NewFromFloat(11.25)
)

// ComputeSDL returns the Skills Development Levy for a monthly wage,
// rounded to 2 decimal places.
func ComputeSDL(monthlyWages decimal.Decimal) decimal.Decimal {
	capped := decimal.Min(monthlyWages, sdlWageCeiling)
	levy := capped.Mul(sdlRate)
	if levy.LessThan(sdlFloor) {
		return sdlFloor
	}
	if levy.GreaterThan(sdlCap) {
		return sdlCap
	}
	return levy.Round(2)
}
