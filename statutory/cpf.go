/*
Package statutory implements Singapore statutory contribution calculations.

PURPOSE:
  Maps an employee's age and wage figures to CPF, SINDA, and SDL amounts
  under the fixed, year-specific rate tables. Like the shift engine,
  everything here is pure: callers supply numbers and persist results.

KEY CONCEPTS IN THIS FILE (cpf.go):
  - Age-banded CPF rates (2025 table), inclusive upper bounds
  - CPFDeductions: employee and employer sides rounded independently

RATE TABLES:
  The tables are deliberately literal. CPF rates change by government
  announcement, not formula; updating a year means editing the bands.

SEE ALSO:
  - levy.go: SINDA and SDL
  - age.go: Calendar age and birthday validation
  - payslip.go: Historical payslip accumulation
*/
package statutory

import "github.com/shopspring/decimal"

// =============================================================================
// CPF RATE BANDS - 2025, percentages of monthly wages
// =============================================================================

type cpfBand struct {
	maxAge   int // inclusive
	employee decimal.Decimal
	employer decimal.Decimal
}

var cpfBands = []cpfBand{
	{55, decimal.NewFromFloat(20.00), decimal.NewFromFloat(17.00)},
	{60, decimal.NewFromFloat(17.00), decimal.NewFromFloat(15.50)},
	{65, decimal.NewFromFloat(11.50), decimal.NewFromFloat(12.00)},
	{70, decimal.NewFromFloat(7.50), decimal.NewFromFloat(9.00)},
}

// Above the last band boundary.
var (
	cpfEmployeeAbove70 = decimal.NewFromFloat(5.00)
	cpfEmployerAbove70 = decimal.NewFromFloat(7.50)
)

// CPFEmployeeRate returns the employee contribution percentage for an age.
func CPFEmployeeRate(age int) decimal.Decimal {
	for _, b := range cpfBands {
		if age <= b.maxAge {
			return b.employee
		}
	}
	return cpfEmployeeAbove70
}

// CPFEmployerRate returns the employer contribution percentage for an age.
func CPFEmployerRate(age int) decimal.Decimal {
	for _, b := range cpfBands {
		if age <= b.maxAge {
			return b.employer
		}
	}
	return cpfEmployerAbove70
}

// =============================================================================
// CPF DEDUCTIONS
// =============================================================================

// CPFDeductions is the monthly CPF split for one wage figure. Field
// names are a persistence/display contract.
type CPFDeductions struct {
	EmployeeDeduction    decimal.Decimal `json:"employeeDeduction"`
	EmployerContribution decimal.Decimal `json:"employerContribution"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeCPFDeductions applies the given percentage rates to a salary.
// Each side is rounded to 2 decimal places independently.
func ComputeCPFDeductions(salary, employeeRatePct, employerRatePct decimal.Decimal) CPFDeductions {
	return CPFDeductions{
		EmployeeDeduction:    salary.Mul(employeeRatePct).Div(oneHundred).Round(2),
		EmployerContribution: salary.Mul(employerRatePct).Div(oneHundred).Round(2),
	}
}
