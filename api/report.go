/*
report.go - Monthly timesheet workbook

Generates the admin-facing xlsx export: one row per closed shift in the
month, hour buckets broken out, a totals row per worker. Streamed
straight to the response; nothing is written to disk.
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/lioncity/timegrid/sgcal"
	"github.com/lioncity/timegrid/store/sqlite"
)

const timesheetSheet = "Timesheet"

// TimesheetReport writes the month's timesheet workbook.
// GET /api/reports/timesheet?month=YYYY-MM
func (h *Handler) TimesheetReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = sgcal.DateOf(h.Now()).MonthKey()
	}

	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", timesheetSheet)

	headers := []string{"Worker", "Date", "Entry", "Leave", "Basic", "OT", "Sunday/PH", "Breaks", "Net"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(timesheetSheet, cell, head)
	}

	row := 2
	for _, wk := range workers {
		shifts, err := h.Store.ListShiftsForMonth(r.Context(), wk.ID, month)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
			return
		}
		if len(shifts) == 0 {
			continue
		}

		for _, s := range shifts {
			setRow(f, row, []any{
				wk.Name,
				s.WorkDate.ISO(),
				s.EntryTime.In(sgcal.Location).Format("15:04"),
				leaveTimeLabel(&s),
				s.Hours.BasicHours.InexactFloat64(),
				s.Hours.OTHours.InexactFloat64(),
				s.Hours.SundayHours.InexactFloat64(),
				s.Hours.BreakHours.InexactFloat64(),
				s.Hours.NetWorkedHours.InexactFloat64(),
			})
			row++
		}

		totals := monthTotals(shifts)
		setRow(f, row, []any{
			wk.Name + " (total)", "", "", "",
			totals.BasicHours.InexactFloat64(),
			totals.OTHours.InexactFloat64(),
			totals.SundayHours.InexactFloat64(),
			totals.BreakHours.InexactFloat64(),
			totals.NetWorkedHours.InexactFloat64(),
		})
		row++
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="timesheet-%s.xlsx"`, month))
	if err := f.Write(w); err != nil {
		// Headers are already out; all we can do is log via the middleware.
		return
	}
}

func setRow(f *excelize.File, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(timesheetSheet, cell, v)
	}
}

func leaveTimeLabel(s *sqlite.ShiftRecord) string {
	if s.LeaveTime == nil {
		return "open"
	}
	return s.LeaveTime.In(sgcal.Location).Format("15:04")
}
