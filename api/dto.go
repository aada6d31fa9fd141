/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the storage model
  from the external contract. Hour and contribution field names are the
  one part that is NOT free to change: the payroll display and the
  persistence layer key off them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - shift/types.go, statutory/: The calculation result shapes embedded here
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/lioncity/timegrid/shift"
	"github.com/lioncity/timegrid/statutory"
)

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Birthday     string `json:"birthday"`
	MonthlyWages string `json:"monthly_wages"`
	SiteLat      float64 `json:"site_lat"`
	SiteLon      float64 `json:"site_lon"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateWorkerRequest is the request to create a worker.
type CreateWorkerRequest struct {
	Name         string  `json:"name"`
	Birthday     string  `json:"birthday"` // YYYY-MM-DD
	MonthlyWages string  `json:"monthly_wages"`
	SiteLat      float64 `json:"site_lat"`
	SiteLon      float64 `json:"site_lon"`
}

// =============================================================================
// SHIFTS
// =============================================================================

// ClockRequest carries a clock-in or clock-out scan. At is optional and
// defaults to the server clock; lat/lon come from the scanning device.
type ClockRequest struct {
	At  string  `json:"at,omitempty"` // RFC3339
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BreakRequest starts or ends a break.
type BreakRequest struct {
	At string `json:"at,omitempty"` // RFC3339
}

// ShiftDTO is one shift with its computed breakdown.
type ShiftDTO struct {
	ID        string               `json:"id"`
	WorkerID  string               `json:"worker_id"`
	WorkDate  string               `json:"work_date"`
	EntryTime string               `json:"entry_time"`
	LeaveTime string               `json:"leave_time,omitempty"`
	Hours     shift.HoursBreakdown `json:"hours"`
}

// MonthShiftsDTO is a month of shifts plus their hour totals.
type MonthShiftsDTO struct {
	Month  string          `json:"month"`
	Shifts []ShiftDTO      `json:"shifts"`
	Totals MonthTotalsDTO  `json:"totals"`
}

// MonthTotalsDTO sums the breakdown fields across a month.
type MonthTotalsDTO struct {
	BasicHours     decimal.Decimal `json:"basicHours"`
	SundayHours    decimal.Decimal `json:"sundayHours"`
	OTHours        decimal.Decimal `json:"otHours"`
	NetWorkedHours decimal.Decimal `json:"netWorkedHours"`
	BreakHours     decimal.Decimal `json:"breakHours"`
	BasicDays      decimal.Decimal `json:"basicDays"`
}

// =============================================================================
// LEAVE
// =============================================================================

// SubmitLeaveRequest is a worker's leave application.
type SubmitLeaveRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// DecideLeaveRequest identifies the approving/rejecting admin.
type DecideLeaveRequest struct {
	DecidedBy string `json:"decided_by"`
}

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID        string `json:"id"`
	WorkerID  string `json:"worker_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status"`
	DecidedBy string `json:"decided_by,omitempty"`
	DecidedAt string `json:"decided_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// PayrollDTO is the admin payroll view for one worker and month.
type PayrollDTO struct {
	WorkerID         string                  `json:"worker_id"`
	Month            string                  `json:"month"`
	Age              int                     `json:"age"`
	MonthlyWages     decimal.Decimal         `json:"monthly_wages"`
	CPFEmployeeRate  decimal.Decimal         `json:"cpf_employee_rate"`
	CPFEmployerRate  decimal.Decimal         `json:"cpf_employer_rate"`
	CPF              statutory.CPFDeductions `json:"cpf"`
	SINDA            decimal.Decimal         `json:"sinda"`
	SDL              decimal.Decimal         `json:"sdl"`
	Hours            MonthTotalsDTO          `json:"hours"`
}

// CreatePayslipRequest records a payslip for a month. TotalAdditions
// defaults to the worker's monthly wage when omitted.
type CreatePayslipRequest struct {
	Month          string `json:"month"` // YYYY-MM
	TotalAdditions string `json:"total_additions,omitempty"`
}

// PayslipDTO represents a stored payslip.
type PayslipDTO struct {
	ID                      string          `json:"id"`
	WorkerID                string          `json:"worker_id"`
	Month                   string          `json:"month"`
	TotalAdditions          decimal.Decimal `json:"total_additions"`
	CPFEmployeeDeduction    decimal.Decimal `json:"cpf_employee_deduction"`
	CPFEmployerContribution decimal.Decimal `json:"cpf_employer_contribution"`
	SINDA                   decimal.Decimal `json:"sinda"`
	SDL                     decimal.Decimal `json:"sdl"`
}

// HolidayDTO is one gazetted holiday.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
