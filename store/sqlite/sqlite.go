/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements requests.Repository, requests.EmployeeDirectory and both
  bookkeeping ports using SQLite. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:       Subject records (hire date, role, active flag)
  requests:        Vacation and overtime requests
  vacation_ledger: Consumed vacation days, one row per approved request
  payroll_inputs:  Payable overtime hours, one row per approved request

ATOMIC DECISIONS:
  UpdateStatus runs as a single conditional UPDATE guarded on
  status = 'pending'. When zero rows change, a follow-up existence check
  distinguishes ErrNotFound from ErrAlreadyDecided. Delete works the
  same way with ErrNotPending. Two concurrent decisions on one request
  therefore cannot both succeed.

IDEMPOTENT BOOKKEEPING:
  vacation_ledger and payroll_inputs carry a UNIQUE request_id, and the
  recording statements use INSERT OR IGNORE. A replayed approval cannot
  double-count days or hours.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  st, err := sqlite.New("./data/requests.db", payroll.DefaultSchedule(), clock)
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - requests/store.go:        interface definitions
  - requests/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/payroll"
	"github.com/warp/request-engine/requests"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db       *sql.DB
	schedule payroll.Schedule
	clock    func() calendar.Date
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string, schedule payroll.Schedule, clock func() calendar.Date) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := &Store{db: db, schedule: schedule, clock: clock}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'employee',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		hours TEXT,
		comment TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		approved_by INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: overlap lookups filter by employee, type and status.
	CREATE INDEX IF NOT EXISTS idx_requests_employee_type_status
		ON requests(employee_id, type, status);
	CREATE INDEX IF NOT EXISTS idx_requests_dates
		ON requests(start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);

	-- Consumed vacation days; UNIQUE request_id makes recording idempotent.
	CREATE TABLE IF NOT EXISTS vacation_ledger (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL UNIQUE,
		employee_id INTEGER NOT NULL,
		days INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_vacation_ledger_employee
		ON vacation_ledger(employee_id);

	-- Payable overtime hours; same idempotency rule.
	CREATE TABLE IF NOT EXISTS payroll_inputs (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL UNIQUE,
		employee_id INTEGER NOT NULL,
		work_date TEXT NOT NULL,
		hours TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payroll_inputs_employee
		ON payroll_inputs(employee_id, work_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

func (s *Store) CreateEmployee(ctx context.Context, e requests.Employee) (*requests.Employee, error) {
	if e.Role == "" {
		e.Role = requests.RoleEmployee
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, hire_date, role, active, created_at)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?)`,
		int64(e.ID), e.Name, e.HireDate.String(), string(e.Role), e.Active,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}
	if e.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		e.ID = requests.EmployeeID(id)
	}
	return &e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id requests.EmployeeID) (*requests.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hire_date, role, active FROM employees WHERE id = ?`, int64(id))
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context) ([]requests.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hire_date, role, active FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []requests.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*requests.Employee, error) {
	var (
		e        requests.Employee
		id       int64
		hireDate string
		role     string
	)
	err := row.Scan(&id, &e.Name, &hireDate, &role, &e.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, requests.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	e.ID = requests.EmployeeID(id)
	e.Role = requests.Role(role)
	e.HireDate, err = calendar.ParseDate(hireDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt hire_date for employee %d: %w", id, err)
	}
	return &e, nil
}

// =============================================================================
// EMPLOYEE QUERIES
// =============================================================================

func (s *Store) EmployeeExists(ctx context.Context, id requests.EmployeeID) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM employees WHERE id = ?`, int64(id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) IsActive(ctx context.Context, id requests.EmployeeID) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx,
		`SELECT active FROM employees WHERE id = ?`, int64(id)).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("employee %d: %w", id, requests.ErrEmployeeNotFound)
	}
	return active, err
}

func (s *Store) GetEntitlement(ctx context.Context, id requests.EmployeeID) (requests.Entitlement, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return requests.Entitlement{}, err
	}

	var taken int
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(days), 0) FROM vacation_ledger WHERE employee_id = ?`,
		int64(id)).Scan(&taken)
	if err != nil {
		return requests.Entitlement{}, fmt.Errorf("ledger sum for employee %d: %w", id, err)
	}

	years := payroll.YearsOfService(emp.HireDate, s.clock())
	accrued := s.schedule.DaysAccrued(years)
	pending := accrued - taken
	if pending < 0 {
		pending = 0
	}

	return requests.Entitlement{
		DaysAccrued:    accrued,
		DaysTaken:      taken,
		DaysPending:    pending,
		YearsOfService: years,
	}, nil
}

// =============================================================================
// REQUEST PERSISTENCE
// =============================================================================

const requestColumns = `id, employee_id, type, start_date, end_date, hours, comment, status, approved_by, created_at, updated_at`

func (s *Store) ListOverlapping(ctx context.Context, id requests.EmployeeID, typ requests.RequestType, start, end calendar.Date) ([]requests.Request, error) {
	// Inclusive intersection: existing.start <= end AND start <= existing.end.
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE employee_id = ? AND type = ? AND status != 'rejected'
		  AND start_date <= ? AND ? <= end_date
		ORDER BY created_at`,
		int64(id), string(typ), end.String(), start.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) Insert(ctx context.Context, nr requests.NewRequest) (*requests.Request, error) {
	now := time.Now().UTC()
	rec := requests.Request{
		ID:         requests.RequestID(uuid.NewString()),
		EmployeeID: nr.EmployeeID,
		Type:       nr.Type,
		StartDate:  nr.StartDate,
		EndDate:    nr.EndDate,
		Hours:      nr.Hours,
		Comment:    nr.Comment,
		Status:     requests.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var hours any
	if !rec.Hours.IsZero() {
		hours = rec.Hours.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		string(rec.ID), int64(rec.EmployeeID), string(rec.Type),
		rec.StartDate.String(), rec.EndDate.String(), hours, rec.Comment,
		string(rec.Status), now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert request: %w", err)
	}
	return &rec, nil
}

func (s *Store) Get(ctx context.Context, id requests.RequestID) (*requests.Request, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+` FROM requests WHERE id = ?`, string(id))
	rec, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, requests.ErrNotFound)
	}
	return rec, err
}

func (s *Store) UpdateStatus(ctx context.Context, id requests.RequestID, status requests.RequestStatus, approvedBy requests.EmployeeID, comment *string) (*requests.Request, error) {
	// Conditional update: the status guard and the write are one step, so
	// a concurrent second decision affects zero rows.
	var commentArg sql.NullString
	if comment != nil {
		commentArg = sql.NullString{String: *comment, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE requests
		SET status = ?, approved_by = ?, comment = COALESCE(?, comment), updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), int64(approvedBy), commentArg,
		time.Now().UTC().Format(time.RFC3339), string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to update request %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("request %s is %s: %w", id, existing.Status, requests.ErrAlreadyDecided)
	}

	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id requests.RequestID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM requests WHERE id = ? AND status = 'pending'`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete request %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("request %s is %s: %w", id, existing.Status, requests.ErrNotPending)
	}
	return nil
}

func (s *Store) ListPending(ctx context.Context) ([]requests.Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE status = 'pending' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) ListByEmployee(ctx context.Context, id requests.EmployeeID, f requests.Filter) ([]requests.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE employee_id = ?`
	args := []any{int64(id)}
	if f.Type != nil {
		query += ` AND type = ?`
		args = append(args, string(*f.Type))
	}
	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*f.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]requests.Request, error) {
	var out []requests.Request
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (*requests.Request, error) {
	var (
		rec        requests.Request
		id         string
		employeeID int64
		typ        string
		startDate  string
		endDate    string
		hours      sql.NullString
		status     string
		approvedBy sql.NullInt64
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&id, &employeeID, &typ, &startDate, &endDate, &hours,
		&rec.Comment, &status, &approvedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.ID = requests.RequestID(id)
	rec.EmployeeID = requests.EmployeeID(employeeID)
	rec.Type = requests.RequestType(typ)
	rec.Status = requests.RequestStatus(status)

	if rec.StartDate, err = calendar.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("corrupt start_date for request %s: %w", id, err)
	}
	if rec.EndDate, err = calendar.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("corrupt end_date for request %s: %w", id, err)
	}
	if hours.Valid && strings.TrimSpace(hours.String) != "" {
		if rec.Hours, err = decimal.NewFromString(hours.String); err != nil {
			return nil, fmt.Errorf("corrupt hours for request %s: %w", id, err)
		}
	}
	if approvedBy.Valid {
		by := requests.EmployeeID(approvedBy.Int64)
		rec.ApprovedBy = &by
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at for request %s: %w", id, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("corrupt updated_at for request %s: %w", id, err)
	}
	return &rec, nil
}

// =============================================================================
// BOOKKEEPING PORTS
// =============================================================================

func (s *Store) RecordVacationTaken(ctx context.Context, employeeID requests.EmployeeID, requestID requests.RequestID, days int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO vacation_ledger (id, request_id, employee_id, days, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), string(requestID), int64(employeeID), days,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record vacation days: %w", err)
	}
	return nil
}

func (s *Store) RecordOvertimeHours(ctx context.Context, employeeID requests.EmployeeID, requestID requests.RequestID, date calendar.Date, hours decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO payroll_inputs (id, request_id, employee_id, work_date, hours, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), string(requestID), int64(employeeID), date.String(),
		hours.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record overtime hours: %w", err)
	}
	return nil
}

// OvertimeHoursRecorded sums payable hours recorded for an employee in
// [from, to]. Used by payroll reporting.
func (s *Store) OvertimeHoursRecorded(ctx context.Context, employeeID requests.EmployeeID, from, to calendar.Date) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hours FROM payroll_inputs
		WHERE employee_id = ? AND work_date >= ? AND work_date <= ?`,
		int64(employeeID), from.String(), to.String())
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(h)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt hours in payroll_inputs: %w", err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

// Compile-time interface checks.
var (
	_ requests.Repository        = (*Store)(nil)
	_ requests.EmployeeDirectory = (*Store)(nil)
	_ requests.EntitlementLedger = (*Store)(nil)
	_ requests.PayrollInput      = (*Store)(nil)
)
