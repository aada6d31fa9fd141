/*
handlers.go - HTTP API handlers for the timesheet/payroll engine

PURPOSE:
  Exposes the calculation engine via REST. Handlers parse HTTP
  requests, read raw values from the store, delegate to the pure
  calculation packages, and persist/serialize results.

ENDPOINTS:
  Workers:
    GET    /api/workers                    List workers
    POST   /api/workers                    Create worker (validates birthday)
    GET    /api/workers/{id}               Worker details

  Clocking:
    POST   /api/workers/{id}/clock-in      Open a shift (geofenced)
    POST   /api/workers/{id}/clock-out     Close shift, compute hours
    POST   /api/workers/{id}/breaks/start  Open a break
    POST   /api/workers/{id}/breaks/end    Close the open break
    GET    /api/workers/{id}/shifts        Month of shifts + totals

  Payroll:
    GET    /api/workers/{id}/payroll       CPF/SINDA/SDL + hour totals
    POST   /api/workers/{id}/payslips      Record a payslip
    GET    /api/workers/{id}/payslips      Payslip history
    GET    /api/workers/{id}/payslips/summary  Accumulated totals

  Leave:
    POST   /api/workers/{id}/leave         Submit leave request
    GET    /api/leave/pending              Pending requests
    POST   /api/leave/{id}/approve         Approve
    POST   /api/leave/{id}/reject          Reject

  Calendar / reports:
    GET    /api/holidays                   Gazetted holidays for a year
    GET    /api/reports/timesheet          Monthly xlsx timesheet

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 403: Geofence rejection
  - 404: Record not found
  - 409: State conflicts (open shift/break, decided leave)
  - 500: Internal errors

SECURITY NOTE:
  No authentication; session handling lives in the hosted backend this
  shell fronts. Do not expose these endpoints directly.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - report.go: Timesheet workbook generation
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lioncity/timegrid/sgcal"
	"github.com/lioncity/timegrid/shift"
	"github.com/lioncity/timegrid/statutory"
	"github.com/lioncity/timegrid/store/sqlite"
)

// DefaultGeofenceRadiusMeters gates clock-in scans to the worker's site.
const DefaultGeofenceRadiusMeters = 200.0

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          *sqlite.Store
	Calendar       *sgcal.Calendar
	Calc           *shift.Calculator
	GeofenceRadius float64

	// Now is the clock; replaced in tests.
	Now func() time.Time
}

// NewHandler creates a handler over a store and holiday calendar.
func NewHandler(store *sqlite.Store, cal *sgcal.Calendar) *Handler {
	return &Handler{
		Store:          store,
		Calendar:       cal,
		Calc:           shift.NewCalculator(cal),
		GeofenceRadius: DefaultGeofenceRadiusMeters,
		Now:            time.Now,
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = toWorkerDTO(&wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	wk, err := h.Store.GetWorker(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get worker", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(wk))
}

// CreateWorker creates a worker. The birthday is the one field that is
// validated rather than silently degraded; a failing validation is
// returned verbatim so form code can render the message.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	var birthday *time.Time
	if req.Birthday != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Birthday, sgcal.Location)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid birthday format (use YYYY-MM-DD)", err)
			return
		}
		birthday = &t
	}

	if v := statutory.ValidateBirthday(birthday, sgcal.DateOf(h.Now()).Time()); !v.IsValid {
		writeJSON(w, http.StatusBadRequest, v)
		return
	}

	wages := decimal.Zero
	if req.MonthlyWages != "" {
		var err error
		if wages, err = decimal.NewFromString(req.MonthlyWages); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid monthly_wages", err)
			return
		}
	}

	wk := &sqlite.Worker{
		Name:         req.Name,
		Birthday:     *birthday,
		MonthlyWages: wages,
		SiteLat:      req.SiteLat,
		SiteLon:      req.SiteLon,
	}
	if err := h.Store.SaveWorker(r.Context(), wk); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkerDTO(wk))
}

// =============================================================================
// CLOCKING HANDLERS
// =============================================================================

// ClockIn opens a shift after the geofence check.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := h.parseAt(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
		return
	}

	wk, err := h.Store.GetWorker(r.Context(), workerID)
	if err != nil {
		h.writeStoreError(w, "Failed to get worker", err)
		return
	}

	dist := shift.HaversineDistanceMeters(req.Lat, req.Lon, wk.SiteLat, wk.SiteLon)
	if dist > h.GeofenceRadius {
		writeError(w, http.StatusForbidden,
			fmt.Sprintf("Scan location is %.0fm from the site (limit %.0fm)", dist, h.GeofenceRadius), nil)
		return
	}

	rec, err := h.Store.ClockIn(r.Context(), workerID, at, sgcal.DateOf(at))
	if err != nil {
		h.writeStoreError(w, "Failed to clock in", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(rec))
}

// ClockOut closes the open shift and persists the hour breakdown.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := h.parseAt(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
		return
	}

	open, err := h.Store.OpenShift(r.Context(), workerID)
	if err != nil {
		h.writeStoreError(w, "Failed to find open shift", err)
		return
	}

	breaks, err := h.Store.ListBreaks(r.Context(), open.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load breaks", err)
		return
	}

	// Close any still-open break at the leave instant; an abandoned
	// break otherwise silently inflates worked hours.
	for _, b := range breaks {
		if b.BreakEnd == nil {
			if err := h.Store.EndBreak(r.Context(), open.ID, at); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to close open break", err)
				return
			}
			if breaks, err = h.Store.ListBreaks(r.Context(), open.ID); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to load breaks", err)
				return
			}
			break
		}
	}

	hours := h.Calc.ComputeShiftHours(open.EntryTime, &at, sqlite.BreakIntervals(breaks), open.WorkDate)
	if err := h.Store.CloseShift(r.Context(), open.ID, at, hours); err != nil {
		h.writeStoreError(w, "Failed to close shift", err)
		return
	}

	open.LeaveTime = &at
	open.Hours = hours
	writeJSON(w, http.StatusOK, toShiftDTO(open))
}

// StartBreak opens a break on the worker's open shift.
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.breakOp(w, r, func(shiftID string, at time.Time, r *http.Request) error {
		_, err := h.Store.StartBreak(r.Context(), shiftID, at)
		return err
	})
}

// EndBreak closes the open break on the worker's open shift.
func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.breakOp(w, r, func(shiftID string, at time.Time, r *http.Request) error {
		return h.Store.EndBreak(r.Context(), shiftID, at)
	})
}

func (h *Handler) breakOp(w http.ResponseWriter, r *http.Request, op func(string, time.Time, *http.Request) error) {
	workerID := chi.URLParam(r, "id")

	var req BreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := h.parseAt(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
		return
	}

	open, err := h.Store.OpenShift(r.Context(), workerID)
	if err != nil {
		h.writeStoreError(w, "Failed to find open shift", err)
		return
	}
	if err := op(open.ID, at, r); err != nil {
		h.writeStoreError(w, "Break operation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shift_id": open.ID, "at": at.Format(time.RFC3339)})
}

// ListShifts returns a worker's shifts and totals for one month.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	month := r.URL.Query().Get("month")
	if month == "" {
		month = sgcal.DateOf(h.Now()).MonthKey()
	}

	shifts, err := h.Store.ListShiftsForMonth(r.Context(), workerID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i := range shifts {
		dtos[i] = toShiftDTO(&shifts[i])
	}

	writeJSON(w, http.StatusOK, MonthShiftsDTO{
		Month:  month,
		Shifts: dtos,
		Totals: monthTotals(shifts),
	})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// Payroll returns the statutory figures and hour totals for one month.
func (h *Handler) Payroll(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	month := r.URL.Query().Get("month")
	if month == "" {
		month = sgcal.DateOf(h.Now()).MonthKey()
	}

	wk, err := h.Store.GetWorker(r.Context(), workerID)
	if err != nil {
		h.writeStoreError(w, "Failed to get worker", err)
		return
	}

	shifts, err := h.Store.ListShiftsForMonth(r.Context(), workerID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	age := statutory.ComputeAge(wk.Birthday, sgcal.DateOf(h.Now()).Time())
	empRate := statutory.CPFEmployeeRate(age)
	erRate := statutory.CPFEmployerRate(age)

	writeJSON(w, http.StatusOK, PayrollDTO{
		WorkerID:        wk.ID,
		Month:           month,
		Age:             age,
		MonthlyWages:    wk.MonthlyWages,
		CPFEmployeeRate: empRate,
		CPFEmployerRate: erRate,
		CPF:             statutory.ComputeCPFDeductions(wk.MonthlyWages, empRate, erRate),
		SINDA:           statutory.ComputeSINDA(wk.MonthlyWages),
		SDL:             statutory.ComputeSDL(wk.MonthlyWages),
		Hours:           monthTotals(shifts),
	})
}

// CreatePayslip records a payslip for a month, deriving the statutory
// amounts from the worker's wage at record time.
func (h *Handler) CreatePayslip(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req CreatePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Month == "" {
		writeError(w, http.StatusBadRequest, "month is required (YYYY-MM)", nil)
		return
	}

	wk, err := h.Store.GetWorker(r.Context(), workerID)
	if err != nil {
		h.writeStoreError(w, "Failed to get worker", err)
		return
	}

	additions := wk.MonthlyWages
	if req.TotalAdditions != "" {
		if additions, err = decimal.NewFromString(req.TotalAdditions); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid total_additions", err)
			return
		}
	}

	age := statutory.ComputeAge(wk.Birthday, sgcal.DateOf(h.Now()).Time())
	cpf := statutory.ComputeCPFDeductions(additions,
		statutory.CPFEmployeeRate(age), statutory.CPFEmployerRate(age))

	slip := &sqlite.Payslip{
		WorkerID:                wk.ID,
		Month:                   req.Month,
		TotalAdditions:          additions.Round(2),
		CPFEmployeeDeduction:    cpf.EmployeeDeduction,
		CPFEmployerContribution: cpf.EmployerContribution,
		SINDA:                   statutory.ComputeSINDA(additions),
		SDL:                     statutory.ComputeSDL(additions),
	}
	if err := h.Store.SavePayslip(r.Context(), slip); err != nil {
		writeError(w, http.StatusConflict, "Failed to save payslip (duplicate month?)", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayslipDTO(slip))
}

// ListPayslips returns a worker's payslip history.
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Store.ListPayslips(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", err)
		return
	}
	dtos := make([]PayslipDTO, len(slips))
	for i := range slips {
		dtos[i] = toPayslipDTO(&slips[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PayslipSummary returns accumulated totals across the history.
func (h *Handler) PayslipSummary(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Store.ListPayslips(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", err)
		return
	}

	history := make([]statutory.PayslipRecord, len(slips))
	for i, s := range slips {
		history[i] = statutory.PayslipRecord{
			TotalAdditions:          s.TotalAdditions,
			CPFEmployeeDeduction:    s.CPFEmployeeDeduction,
			CPFEmployerContribution: s.CPFEmployerContribution,
		}
	}
	writeJSON(w, http.StatusOK, statutory.AccumulateTotals(history))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// SubmitLeave files a leave request for a worker.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := sgcal.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := sgcal.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date before start_date", nil)
		return
	}

	if _, err := h.Store.GetWorker(r.Context(), workerID); err != nil {
		h.writeStoreError(w, "Failed to get worker", err)
		return
	}

	lr := &sqlite.LeaveRequest{
		WorkerID:  workerID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := h.Store.CreateLeaveRequest(r.Context(), lr); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create leave request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(lr))
}

// ListPendingLeave returns requests awaiting a decision.
func (h *Handler) ListPendingLeave(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListLeaveRequests(r.Context(), sqlite.LeavePending)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave requests", err)
		return
	}
	dtos := make([]LeaveRequestDTO, len(reqs))
	for i := range reqs {
		dtos[i] = toLeaveDTO(&reqs[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveLeave approves a pending request.
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, true)
}

// RejectLeave rejects a pending request.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, false)
}

func (h *Handler) decideLeave(w http.ResponseWriter, r *http.Request, approve bool) {
	id := chi.URLParam(r, "id")

	var req DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DecidedBy == "" {
		writeError(w, http.StatusBadRequest, "decided_by is required", nil)
		return
	}

	if err := h.Store.DecideLeave(r.Context(), id, approve, req.DecidedBy); err != nil {
		h.writeStoreError(w, "Failed to decide leave request", err)
		return
	}

	status := sqlite.LeaveRejected
	if approve {
		status = sqlite.LeaveApproved
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": status})
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListHolidays returns the gazetted holidays for a year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := sgcal.DateOf(h.Now()).Year
	if q := r.URL.Query().Get("year"); q != "" {
		if _, err := fmt.Sscanf(q, "%d", &year); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
	}

	hols := h.Calendar.Year(year)
	dtos := make([]HolidayDTO, len(hols))
	for i, hol := range hols {
		dtos[i] = HolidayDTO{Date: hol.Date.ISO(), Name: hol.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// parseAt parses an optional RFC3339 timestamp, defaulting to now.
func (h *Handler) parseAt(raw string) (time.Time, error) {
	if raw == "" {
		return h.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case sqlite.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case sqlite.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func monthTotals(shifts []sqlite.ShiftRecord) MonthTotalsDTO {
	basic, sunday, ot := decimal.Zero, decimal.Zero, decimal.Zero
	net, brk, days := decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range shifts {
		basic = basic.Add(s.Hours.BasicHours)
		sunday = sunday.Add(s.Hours.SundayHours)
		ot = ot.Add(s.Hours.OTHours)
		net = net.Add(s.Hours.NetWorkedHours)
		brk = brk.Add(s.Hours.BreakHours)
		days = days.Add(s.Hours.BasicDay)
	}
	return MonthTotalsDTO{
		BasicHours:     basic.Round(2),
		SundayHours:    sunday.Round(2),
		OTHours:        ot.Round(2),
		NetWorkedHours: net.Round(2),
		BreakHours:     brk.Round(2),
		BasicDays:      days.Round(2),
	}
}

func toWorkerDTO(w *sqlite.Worker) WorkerDTO {
	return WorkerDTO{
		ID:           w.ID,
		Name:         w.Name,
		Birthday:     w.Birthday.Format("2006-01-02"),
		MonthlyWages: w.MonthlyWages.String(),
		SiteLat:      w.SiteLat,
		SiteLon:      w.SiteLon,
		CreatedAt:    w.CreatedAt.Format(time.RFC3339),
	}
}

func toShiftDTO(s *sqlite.ShiftRecord) ShiftDTO {
	dto := ShiftDTO{
		ID:        s.ID,
		WorkerID:  s.WorkerID,
		WorkDate:  s.WorkDate.ISO(),
		EntryTime: s.EntryTime.Format(time.RFC3339),
		Hours:     s.Hours,
	}
	if s.LeaveTime != nil {
		dto.LeaveTime = s.LeaveTime.Format(time.RFC3339)
	}
	return dto
}

func toLeaveDTO(lr *sqlite.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:        lr.ID,
		WorkerID:  lr.WorkerID,
		StartDate: lr.StartDate.ISO(),
		EndDate:   lr.EndDate.ISO(),
		Reason:    lr.Reason,
		Status:    lr.Status,
		DecidedBy: lr.DecidedBy,
		CreatedAt: lr.CreatedAt.Format(time.RFC3339),
	}
	if lr.DecidedAt != nil {
		dto.DecidedAt = lr.DecidedAt.Format(time.RFC3339)
	}
	return dto
}

func toPayslipDTO(p *sqlite.Payslip) PayslipDTO {
	return PayslipDTO{
		ID:                      p.ID,
		WorkerID:                p.WorkerID,
		Month:                   p.Month,
		TotalAdditions:          p.TotalAdditions,
		CPFEmployeeDeduction:    p.CPFEmployeeDeduction,
		CPFEmployerContribution: p.CPFEmployerContribution,
		SINDA:                   p.SINDA,
		SDL:                     p.SDL,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
