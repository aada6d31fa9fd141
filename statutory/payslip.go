package statutory

import "github.com/shopspring/decimal"

// PayslipRecord is the slice of a stored payslip the accumulator reads.
// Zero-value decimals stand in for missing fields and sum as zero.
type PayslipRecord struct {
	TotalAdditions          decimal.Decimal `json:"total_additions"`
	CPFEmployeeDeduction    decimal.Decimal `json:"cpf_employee_deduction"`
	CPFEmployerContribution decimal.Decimal `json:"cpf_employer_contribution"`
}

// PayslipTotals is the running total across a payslip history.
type PayslipTotals struct {
	TotalAdditions          decimal.Decimal `json:"total_additions"`
	CPFEmployeeDeduction    decimal.Decimal `json:"cpf_employee_deduction"`
	CPFEmployerContribution decimal.Decimal `json:"cpf_employer_contribution"`
}

// AccumulateTotals sums a payslip history, each total rounded to
// 2 decimal places.
func AccumulateTotals(history []PayslipRecord) PayslipTotals {
	additions := decimal.Zero
	employee := decimal.Zero
	employer := decimal.Zero

	for _, p := range history {
		additions = additions.Add(p.TotalAdditions)
		employee = employee.Add(p.CPFEmployeeDeduction)
		employer = employer.Add(p.CPFEmployerContribution)
	}

	return PayslipTotals{
		TotalAdditions:          additions.Round(2),
		CPFEmployeeDeduction:    employee.Round(2),
		CPFEmployerContribution: employer.Round(2),
	}
}
