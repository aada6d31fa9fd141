/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Stores workers, shifts, breaks, leave requests, payslips, and the
  holiday mirror table. The calculation packages (shift, statutory)
  never touch this layer; handlers read raw values out, run the pure
  calculations, and write results back.

KEY TABLES:
  workers:        Worker records (wage, birthday, site coordinates)
  shifts:         One row per shift; leave_time NULL while open,
                  hour columns written on clock-out
  breaks:         Pauses within a shift; break_end NULL while open
  leave_requests: Leave approval workflow (pending/approved/rejected)
  payslips:       Monthly payslip figures for accumulation
  holidays:       Read-model mirror of the gazetted calendar

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't
  block during clock-in/out bursts.

USAGE:
  store, err := sqlite.New("./data/timegrid.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - api/handlers.go: The only consumer of this package
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/lioncity/timegrid/sgcal"
	"github.com/lioncity/timegrid/shift"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWorkerNotFound is returned when a referenced worker doesn't exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrOpenShiftExists is returned when clocking in while a shift is
	// still open. A worker has at most one open shift.
	ErrOpenShiftExists = errors.New("worker already has an open shift")

	// ErrNoOpenShift is returned by operations that need an open shift
	// (clock-out, breaks) when none exists.
	ErrNoOpenShift = errors.New("worker has no open shift")

	// ErrOpenBreakExists is returned when starting a break while one is open.
	ErrOpenBreakExists = errors.New("shift already has an open break")

	// ErrNoOpenBreak is returned when ending a break that was never started.
	ErrNoOpenBreak = errors.New("shift has no open break")

	// ErrLeaveNotFound is returned when a referenced leave request doesn't exist.
	ErrLeaveNotFound = errors.New("leave request not found")

	// ErrLeaveAlreadyDecided is returned when approving or rejecting a
	// request that is no longer pending.
	ErrLeaveAlreadyDecided = errors.New("leave request already decided")
)

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrOpenShiftExists) ||
		errors.Is(err, ErrNoOpenShift) ||
		errors.Is(err, ErrOpenBreakExists) ||
		errors.Is(err, ErrNoOpenBreak) ||
		errors.Is(err, ErrLeaveAlreadyDecided)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound) || errors.Is(err, ErrLeaveNotFound)
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// Worker is one employee record.
type Worker struct {
	ID           string
	Name         string
	Birthday     time.Time
	MonthlyWages decimal.Decimal
	SiteLat      float64
	SiteLon      float64
	CreatedAt    time.Time
}

// ShiftRecord is one shift row. LeaveTime is nil while the shift is
// open; Hours is the zero breakdown until clock-out.
type ShiftRecord struct {
	ID        string
	WorkerID  string
	WorkDate  sgcal.Date
	EntryTime time.Time
	LeaveTime *time.Time
	Hours     shift.HoursBreakdown
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BreakRecord is one pause row within a shift.
type BreakRecord struct {
	ID         string
	ShiftID    string
	BreakStart time.Time
	BreakEnd   *time.Time
}

// Leave request statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest is one leave application.
type LeaveRequest struct {
	ID        string
	WorkerID  string
	StartDate sgcal.Date
	EndDate   sgcal.Date
	Reason    string
	Status    string
	DecidedBy string
	DecidedAt *time.Time
	CreatedAt time.Time
}

// Payslip is one stored monthly payslip.
type Payslip struct {
	ID                      string
	WorkerID                string
	Month                   string // YYYY-MM
	TotalAdditions          decimal.Decimal
	CPFEmployeeDeduction    decimal.Decimal
	CPFEmployerContribution decimal.Decimal
	SINDA                   decimal.Decimal
	SDL                     decimal.Decimal
	CreatedAt               time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		birthday TEXT NOT NULL,
		monthly_wages TEXT NOT NULL,
		site_lat REAL NOT NULL DEFAULT 0,
		site_lon REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		work_date TEXT NOT NULL,
		entry_time TEXT NOT NULL,
		leave_time TEXT,
		basic_hours TEXT NOT NULL DEFAULT '0',
		sunday_hours TEXT NOT NULL DEFAULT '0',
		ot_hours TEXT NOT NULL DEFAULT '0',
		total_duration TEXT NOT NULL DEFAULT '0',
		net_worked_hours TEXT NOT NULL DEFAULT '0',
		break_hours TEXT NOT NULL DEFAULT '0',
		basic_day TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One open shift per worker (clock-in guard, hot path)
	CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_open
		ON shifts(worker_id) WHERE leave_time IS NULL;
	CREATE INDEX IF NOT EXISTS idx_shifts_worker_date
		ON shifts(worker_id, work_date);

	CREATE TABLE IF NOT EXISTS breaks (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL REFERENCES shifts(id),
		break_start TEXT NOT NULL,
		break_end TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_breaks_one_open
		ON breaks(shift_id) WHERE break_end IS NULL;
	CREATE INDEX IF NOT EXISTS idx_breaks_shift
		ON breaks(shift_id);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		decided_by TEXT,
		decided_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_status
		ON leave_requests(status);
	CREATE INDEX IF NOT EXISTS idx_leave_worker
		ON leave_requests(worker_id);

	CREATE TABLE IF NOT EXISTS payslips (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		month TEXT NOT NULL,
		total_additions TEXT NOT NULL DEFAULT '0',
		cpf_employee_deduction TEXT NOT NULL DEFAULT '0',
		cpf_employer_contribution TEXT NOT NULL DEFAULT '0',
		sinda TEXT NOT NULL DEFAULT '0',
		sdl TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		UNIQUE(worker_id, month)
	);

	CREATE TABLE IF NOT EXISTS holidays (
		year INTEGER NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (year, date)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKERS
// =============================================================================

// SaveWorker inserts a worker. The ID is generated when empty.
func (s *Store) SaveWorker(ctx context.Context, w *Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers (id, name, birthday, monthly_wages, site_lat, site_lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Birthday.Format("2006-01-02"), w.MonthlyWages.String(),
		w.SiteLat, w.SiteLon, w.CreatedAt.Format(time.RFC3339))
	return err
}

// GetWorker returns a worker by ID, or ErrWorkerNotFound.
func (s *Store) GetWorker(ctx context.Context, id string) (*Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, birthday, monthly_wages, site_lat, site_lon, created_at
		FROM workers WHERE id = ?`, id)

	w, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkerNotFound
	}
	return w, err
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, birthday, monthly_wages, site_lat, site_lon, created_at
		FROM workers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanWorker(row scannable) (*Worker, error) {
	var w Worker
	var birthday, wages, createdAt string
	if err := row.Scan(&w.ID, &w.Name, &birthday, &wages, &w.SiteLat, &w.SiteLon, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if w.Birthday, err = time.ParseInLocation("2006-01-02", birthday, sgcal.Location); err != nil {
		return nil, fmt.Errorf("worker %s: bad birthday: %w", w.ID, err)
	}
	if w.MonthlyWages, err = decimal.NewFromString(wages); err != nil {
		return nil, fmt.Errorf("worker %s: bad wages: %w", w.ID, err)
	}
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &w, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

// ClockIn opens a new shift. Fails with ErrOpenShiftExists when the
// worker already has one open.
func (s *Store) ClockIn(ctx context.Context, workerID string, entry time.Time, workDate sgcal.Date) (*ShiftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM shifts WHERE worker_id = ? AND leave_time IS NULL`, workerID).Scan(&open)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrOpenShiftExists
	}

	now := time.Now().UTC()
	rec := &ShiftRecord{
		ID:        uuid.NewString(),
		WorkerID:  workerID,
		WorkDate:  workDate,
		EntryTime: entry,
		Hours:     shift.ZeroBreakdown(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, worker_id, work_date, entry_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.WorkerID, rec.WorkDate.ISO(), rec.EntryTime.Format(time.RFC3339),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// OpenShift returns the worker's open shift, or ErrNoOpenShift.
func (s *Store) OpenShift(ctx context.Context, workerID string) (*ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectShift+` WHERE worker_id = ? AND leave_time IS NULL`, workerID)
	rec, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenShift
	}
	return rec, err
}

// CloseShift sets the leave time and persists the computed breakdown.
func (s *Store) CloseShift(ctx context.Context, shiftID string, leave time.Time, hours shift.HoursBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET
			leave_time = ?,
			basic_hours = ?, sunday_hours = ?, ot_hours = ?,
			total_duration = ?, net_worked_hours = ?, break_hours = ?, basic_day = ?,
			updated_at = ?
		WHERE id = ? AND leave_time IS NULL`,
		leave.Format(time.RFC3339),
		hours.BasicHours.String(), hours.SundayHours.String(), hours.OTHours.String(),
		hours.TotalDuration.String(), hours.NetWorkedHours.String(),
		hours.BreakHours.String(), hours.BasicDay.String(),
		time.Now().UTC().Format(time.RFC3339), shiftID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoOpenShift
	}
	return nil
}

// ListShiftsForMonth returns a worker's shifts whose work_date falls in
// the given YYYY-MM month, ordered by date.
func (s *Store) ListShiftsForMonth(ctx context.Context, workerID, monthKey string) ([]ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectShift+` WHERE worker_id = ? AND work_date LIKE ? ORDER BY work_date, entry_time`,
		workerID, monthKey+"-%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShiftRecord
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

const selectShift = `
	SELECT id, worker_id, work_date, entry_time, leave_time,
		basic_hours, sunday_hours, ot_hours, total_duration,
		net_worked_hours, break_hours, basic_day, created_at, updated_at
	FROM shifts`

func scanShift(row scannable) (*ShiftRecord, error) {
	var rec ShiftRecord
	var workDate, entry, createdAt, updatedAt string
	var leave sql.NullString
	var basic, sunday, ot, total, net, brk, basicDay string

	err := row.Scan(&rec.ID, &rec.WorkerID, &workDate, &entry, &leave,
		&basic, &sunday, &ot, &total, &net, &brk, &basicDay, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if rec.WorkDate, err = sgcal.ParseDate(workDate); err != nil {
		return nil, fmt.Errorf("shift %s: %w", rec.ID, err)
	}
	if rec.EntryTime, err = time.Parse(time.RFC3339, entry); err != nil {
		return nil, fmt.Errorf("shift %s: bad entry_time: %w", rec.ID, err)
	}
	if leave.Valid {
		t, err := time.Parse(time.RFC3339, leave.String)
		if err != nil {
			return nil, fmt.Errorf("shift %s: bad leave_time: %w", rec.ID, err)
		}
		rec.LeaveTime = &t
	}

	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{basic, &rec.Hours.BasicHours},
		{sunday, &rec.Hours.SundayHours},
		{ot, &rec.Hours.OTHours},
		{total, &rec.Hours.TotalDuration},
		{net, &rec.Hours.NetWorkedHours},
		{brk, &rec.Hours.BreakHours},
		{basicDay, &rec.Hours.BasicDay},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
			return nil, fmt.Errorf("shift %s: bad hour field: %w", rec.ID, err)
		}
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// =============================================================================
// BREAKS
// =============================================================================

// StartBreak opens a break on a shift. One open break at a time.
func (s *Store) StartBreak(ctx context.Context, shiftID string, at time.Time) (*BreakRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM breaks WHERE shift_id = ? AND break_end IS NULL`, shiftID).Scan(&open)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrOpenBreakExists
	}

	rec := &BreakRecord{ID: uuid.NewString(), ShiftID: shiftID, BreakStart: at}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO breaks (id, shift_id, break_start) VALUES (?, ?, ?)`,
		rec.ID, rec.ShiftID, rec.BreakStart.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// EndBreak closes the shift's open break.
func (s *Store) EndBreak(ctx context.Context, shiftID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE breaks SET break_end = ? WHERE shift_id = ? AND break_end IS NULL`,
		at.Format(time.RFC3339), shiftID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoOpenBreak
	}
	return nil
}

// ListBreaks returns a shift's breaks in start order.
func (s *Store) ListBreaks(ctx context.Context, shiftID string) ([]BreakRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, shift_id, break_start, break_end FROM breaks WHERE shift_id = ? ORDER BY break_start`,
		shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BreakRecord
	for rows.Next() {
		var rec BreakRecord
		var start string
		var end sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ShiftID, &start, &end); err != nil {
			return nil, err
		}
		if rec.BreakStart, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("break %s: %w", rec.ID, err)
		}
		if end.Valid {
			t, err := time.Parse(time.RFC3339, end.String)
			if err != nil {
				return nil, fmt.Errorf("break %s: %w", rec.ID, err)
			}
			rec.BreakEnd = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// BreakIntervals converts a shift's break rows to calculator input.
func BreakIntervals(breaks []BreakRecord) shift.Intervals {
	out := make(shift.Intervals, len(breaks))
	for i, b := range breaks {
		out[i] = shift.BreakInterval{Start: b.BreakStart, End: b.BreakEnd}
	}
	return out
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// CreateLeaveRequest inserts a pending leave request.
func (s *Store) CreateLeaveRequest(ctx context.Context, req *LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = LeavePending
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests (id, worker_id, start_date, end_date, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.WorkerID, req.StartDate.ISO(), req.EndDate.ISO(),
		req.Reason, req.Status, req.CreatedAt.Format(time.RFC3339))
	return err
}

// ListLeaveRequests returns requests filtered by status; empty status
// means all. Newest first.
func (s *Store) ListLeaveRequests(ctx context.Context, status string) ([]LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, worker_id, start_date, end_date, reason, status, decided_by, decided_at, created_at
		FROM leave_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		var start, end, createdAt string
		var reason, decidedBy, decidedAt sql.NullString
		if err := rows.Scan(&req.ID, &req.WorkerID, &start, &end, &reason,
			&req.Status, &decidedBy, &decidedAt, &createdAt); err != nil {
			return nil, err
		}
		if req.StartDate, err = sgcal.ParseDate(start); err != nil {
			return nil, err
		}
		if req.EndDate, err = sgcal.ParseDate(end); err != nil {
			return nil, err
		}
		req.Reason = reason.String
		req.DecidedBy = decidedBy.String
		if decidedAt.Valid {
			t, _ := time.Parse(time.RFC3339, decidedAt.String)
			req.DecidedAt = &t
		}
		req.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, req)
	}
	return out, rows.Err()
}

// DecideLeave approves or rejects a pending request.
func (s *Store) DecideLeave(ctx context.Context, id string, approve bool, decidedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := LeaveRejected
	if approve {
		status = LeaveApproved
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE leave_requests SET status = ?, decided_by = ?, decided_at = ?
		WHERE id = ? AND status = ?`,
		status, decidedBy, time.Now().UTC().Format(time.RFC3339), id, LeavePending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM leave_requests WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrLeaveNotFound
		}
		return ErrLeaveAlreadyDecided
	}
	return nil
}

// =============================================================================
// PAYSLIPS
// =============================================================================

// SavePayslip inserts a payslip; one per worker per month.
func (s *Store) SavePayslip(ctx context.Context, p *Payslip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payslips (id, worker_id, month, total_additions,
			cpf_employee_deduction, cpf_employer_contribution, sinda, sdl, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkerID, p.Month, p.TotalAdditions.String(),
		p.CPFEmployeeDeduction.String(), p.CPFEmployerContribution.String(),
		p.SINDA.String(), p.SDL.String(), p.CreatedAt.Format(time.RFC3339))
	return err
}

// ListPayslips returns a worker's payslips ordered by month.
func (s *Store) ListPayslips(ctx context.Context, workerID string) ([]Payslip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, worker_id, month, total_additions,
			cpf_employee_deduction, cpf_employer_contribution, sinda, sdl, created_at
		FROM payslips WHERE worker_id = ? ORDER BY month`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		var p Payslip
		var additions, empl, emplr, sinda, sdl, createdAt string
		if err := rows.Scan(&p.ID, &p.WorkerID, &p.Month, &additions,
			&empl, &emplr, &sinda, &sdl, &createdAt); err != nil {
			return nil, err
		}
		fields := []struct {
			raw string
			dst *decimal.Decimal
		}{
			{additions, &p.TotalAdditions},
			{empl, &p.CPFEmployeeDeduction},
			{emplr, &p.CPFEmployerContribution},
			{sinda, &p.SINDA},
			{sdl, &p.SDL},
		}
		var err error
		for _, f := range fields {
			if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
				return nil, fmt.Errorf("payslip %s: %w", p.ID, err)
			}
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// HOLIDAY MIRROR
// =============================================================================

// SyncHolidays replaces the holiday mirror table with the calendar's
// contents. Run at startup so admin views can query holidays by SQL.
func (s *Store) SyncHolidays(ctx context.Context, cal *sgcal.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holidays`); err != nil {
		return err
	}
	for _, year := range cal.Years() {
		for _, h := range cal.Year(year) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO holidays (year, date, name) VALUES (?, ?, ?)`,
				year, h.Date.ISO(), h.Name); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ListHolidays returns the mirrored holidays for one year.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]sgcal.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name FROM holidays WHERE year = ? ORDER BY date`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sgcal.Holiday
	for rows.Next() {
		var iso, name string
		if err := rows.Scan(&iso, &name); err != nil {
			return nil, err
		}
		d, err := sgcal.ParseDate(iso)
		if err != nil {
			return nil, err
		}
		out = append(out, sgcal.Holiday{Date: d, Name: name})
	}
	return out, rows.Err()
}
