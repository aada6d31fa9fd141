package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncity/timegrid/api"
	"github.com/lioncity/timegrid/sgcal"
	"github.com/lioncity/timegrid/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// Fixed clock: Tuesday 2025-06-10 09:00 SGT.
var testNow = time.Date(2025, time.June, 10, 9, 0, 0, 0, sgcal.Location)

func newTestServer(t *testing.T) (*httptest.Server, *api.Handler) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, sgcal.Default())
	h.Now = func() time.Time { return testNow }

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	} else {
		buf.WriteString("{}")
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createWorker(t *testing.T, srv *httptest.Server) api.WorkerDTO {
	t.Helper()
	var dto api.WorkerDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers", api.CreateWorkerRequest{
		Name:         "Lim Mei Ling",
		Birthday:     "1990-04-12",
		MonthlyWages: "3200",
		SiteLat:      1.3521,
		SiteLon:      103.8198,
	}, &dto)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return dto
}

func sgt(hour, minute int) string {
	return time.Date(2025, time.June, 10, hour, minute, 0, 0, sgcal.Location).Format(time.RFC3339)
}

// =============================================================================
// WORKER CREATION / BIRTHDAY VALIDATION
// =============================================================================

func TestCreateWorker_Valid(t *testing.T) {
	srv, _ := newTestServer(t)
	dto := createWorker(t, srv)

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "1990-04-12", dto.Birthday)
	assert.Equal(t, "3200", dto.MonthlyWages)
}

func TestCreateWorker_BirthdayValidationSurfacesToClient(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name     string
		birthday string
		wantErr  string
	}{
		{"missing", "", "required"},
		{"future", "2030-01-01", "future"},
		{"too young", "2015-01-01", "between 16 and 100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var verdict struct {
				IsValid bool   `json:"isValid"`
				Error   string `json:"error"`
			}
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers", api.CreateWorkerRequest{
				Name: "X", Birthday: tc.birthday, MonthlyWages: "1000",
			}, &verdict)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, verdict.IsValid)
			assert.Contains(t, verdict.Error, tc.wantErr)
		})
	}
}

// =============================================================================
// CLOCK-IN / GEOFENCE
// =============================================================================

func TestClockIn_OutsideGeofenceRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)

	// ~17km away from the site.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/"+wk.ID+"/clock-in",
		api.ClockRequest{At: sgt(9, 0), Lat: 1.3644, Lon: 103.9915}, nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestClockIn_TwiceConflicts(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)

	in := api.ClockRequest{At: sgt(9, 0), Lat: 1.3521, Lon: 103.8198}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/"+wk.ID+"/clock-in", in, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workers/"+wk.ID+"/clock-in", in, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// =============================================================================
// FULL SHIFT FLOW
// =============================================================================

func TestShiftFlow_ClockOutComputesBreakdown(t *testing.T) {
	// GIVEN: Clock-in 09:00, break 12:00-13:00, clock-out 18:00 on an
	//        ordinary Tuesday
	// THEN: total=9, break=1, net=8, basic=8, ot=0

	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)
	base := srv.URL + "/api/workers/" + wk.ID

	resp := doJSON(t, http.MethodPost, base+"/clock-in",
		api.ClockRequest{At: sgt(9, 0), Lat: 1.3521, Lon: 103.8198}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/breaks/start", api.BreakRequest{At: sgt(12, 0)}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, base+"/breaks/end", api.BreakRequest{At: sgt(13, 0)}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.ShiftDTO
	resp = doJSON(t, http.MethodPost, base+"/clock-out",
		api.ClockRequest{At: sgt(18, 0), Lat: 1.3521, Lon: 103.8198}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2025-06-10", out.WorkDate)
	assert.Equal(t, "9", out.Hours.TotalDuration.String())
	assert.Equal(t, "1", out.Hours.BreakHours.String())
	assert.Equal(t, "8", out.Hours.NetWorkedHours.String())
	assert.Equal(t, "8", out.Hours.BasicHours.String())
	assert.Equal(t, "0", out.Hours.OTHours.String())
	assert.Equal(t, "1", out.Hours.BasicDay.String())

	// The month listing reflects the stored breakdown.
	var month api.MonthShiftsDTO
	resp = doJSON(t, http.MethodGet, base+"/shifts?month=2025-06", nil, &month)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, month.Shifts, 1)
	assert.Equal(t, "8", month.Totals.BasicHours.String())
}

func TestClockOut_WithoutOpenShiftConflicts(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/"+wk.ID+"/clock-out",
		api.ClockRequest{At: sgt(18, 0)}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestClockOut_ClosesAbandonedBreak(t *testing.T) {
	// A break left open is closed at the leave instant rather than
	// inflating net worked hours.
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)
	base := srv.URL + "/api/workers/" + wk.ID

	doJSON(t, http.MethodPost, base+"/clock-in",
		api.ClockRequest{At: sgt(9, 0), Lat: 1.3521, Lon: 103.8198}, nil)
	doJSON(t, http.MethodPost, base+"/breaks/start", api.BreakRequest{At: sgt(17, 0)}, nil)

	var out api.ShiftDTO
	resp := doJSON(t, http.MethodPost, base+"/clock-out",
		api.ClockRequest{At: sgt(18, 0), Lat: 1.3521, Lon: 103.8198}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "1", out.Hours.BreakHours.String())
	assert.Equal(t, "8", out.Hours.NetWorkedHours.String())
}

// =============================================================================
// PAYROLL VIEW
// =============================================================================

func TestPayroll_StatutoryFigures(t *testing.T) {
	// Worker born 1990-04-12 is 35 at the fixed clock: employee 20%,
	// employer 17% of $3200; SINDA band ≤4500; SDL 3200*0.0025=8.

	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)

	var out api.PayrollDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workers/"+wk.ID+"/payroll?month=2025-06", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 35, out.Age)
	assert.Equal(t, "640", out.CPF.EmployeeDeduction.String())
	assert.Equal(t, "544", out.CPF.EmployerContribution.String())
	assert.Equal(t, "7", out.SINDA.String())
	assert.Equal(t, "8", out.SDL.String())
}

// =============================================================================
// PAYSLIPS
// =============================================================================

func TestPayslips_RecordAndAccumulate(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)
	base := srv.URL + "/api/workers/" + wk.ID

	for _, month := range []string{"2025-04", "2025-05"} {
		resp := doJSON(t, http.MethodPost, base+"/payslips",
			api.CreatePayslipRequest{Month: month}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var summary struct {
		TotalAdditions          string `json:"total_additions"`
		CPFEmployeeDeduction    string `json:"cpf_employee_deduction"`
		CPFEmployerContribution string `json:"cpf_employer_contribution"`
	}
	resp := doJSON(t, http.MethodGet, base+"/payslips/summary", nil, &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "6400", summary.TotalAdditions)
	assert.Equal(t, "1280", summary.CPFEmployeeDeduction)
	assert.Equal(t, "1088", summary.CPFEmployerContribution)
}

// =============================================================================
// LEAVE WORKFLOW
// =============================================================================

func TestLeave_SubmitApprove(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)

	var lr api.LeaveRequestDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/"+wk.ID+"/leave",
		api.SubmitLeaveRequest{StartDate: "2025-07-01", EndDate: "2025-07-03", Reason: "family"}, &lr)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", lr.Status)

	var pending []api.LeaveRequestDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/leave/pending", nil, &pending)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, pending, 1)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/leave/"+lr.ID+"/approve",
		api.DecideLeaveRequest{DecidedBy: "admin-1"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Deciding again conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/leave/"+lr.ID+"/reject",
		api.DecideLeaveRequest{DecidedBy: "admin-2"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLeave_EndBeforeStartRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/"+wk.ID+"/leave",
		api.SubmitLeaveRequest{StartDate: "2025-07-03", EndDate: "2025-07-01"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// HOLIDAYS / REPORTS
// =============================================================================

func TestListHolidays(t *testing.T) {
	srv, _ := newTestServer(t)

	var hols []api.HolidayDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/holidays?year=2025", nil, &hols)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, hols, 11)
	assert.Equal(t, "2025-01-01", hols[0].Date)
}

func TestTimesheetReport_ReturnsWorkbook(t *testing.T) {
	srv, _ := newTestServer(t)
	wk := createWorker(t, srv)
	base := srv.URL + "/api/workers/" + wk.ID

	doJSON(t, http.MethodPost, base+"/clock-in",
		api.ClockRequest{At: sgt(9, 0), Lat: 1.3521, Lon: 103.8198}, nil)
	doJSON(t, http.MethodPost, base+"/clock-out",
		api.ClockRequest{At: sgt(17, 0), Lat: 1.3521, Lon: 103.8198}, nil)

	resp, err := http.Get(srv.URL + "/api/reports/timesheet?month=2025-06")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "timesheet-2025-06.xlsx")
}
