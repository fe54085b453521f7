// Package store provides Repository implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/payroll"
	"github.com/warp/request-engine/requests"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================
// Implements requests.Repository plus both bookkeeping ports. All
// mutating operations run under one lock, so UpdateStatus and Delete are
// atomic check-then-mutate steps as the contract requires.

type Memory struct {
	mu        sync.RWMutex
	employees map[requests.EmployeeID]requests.Employee
	records   map[requests.RequestID]requests.Request

	// Bookkeeping keyed by request id for idempotency.
	vacationLedger map[requests.RequestID]ledgerEntry
	overtimeHours  map[requests.RequestID]decimal.Decimal

	schedule payroll.Schedule
	clock    func() calendar.Date
}

func NewMemory(schedule payroll.Schedule, clock func() calendar.Date) *Memory {
	return &Memory{
		employees:      make(map[requests.EmployeeID]requests.Employee),
		records:        make(map[requests.RequestID]requests.Request),
		vacationLedger: make(map[requests.RequestID]ledgerEntry),
		overtimeHours:  make(map[requests.RequestID]decimal.Decimal),
		schedule:       schedule,
		clock:          clock,
	}
}

// AddEmployee seeds an employee record.
func (m *Memory) AddEmployee(e requests.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

func (m *Memory) CreateEmployee(_ context.Context, e requests.Employee) (*requests.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == 0 {
		e.ID = requests.EmployeeID(len(m.employees) + 1)
		for {
			if _, taken := m.employees[e.ID]; !taken {
				break
			}
			e.ID++
		}
	}
	m.employees[e.ID] = e
	return &e, nil
}

func (m *Memory) GetEmployee(_ context.Context, id requests.EmployeeID) (*requests.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee %d: %w", id, requests.ErrEmployeeNotFound)
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]requests.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]requests.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// EMPLOYEE QUERIES
// =============================================================================

func (m *Memory) EmployeeExists(_ context.Context, id requests.EmployeeID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.employees[id]
	return ok, nil
}

func (m *Memory) IsActive(_ context.Context, id requests.EmployeeID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return false, fmt.Errorf("employee %d: %w", id, requests.ErrEmployeeNotFound)
	}
	return e.Active, nil
}

func (m *Memory) GetEntitlement(_ context.Context, id requests.EmployeeID) (requests.Entitlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return requests.Entitlement{}, fmt.Errorf("employee %d: %w", id, requests.ErrEmployeeNotFound)
	}

	years := payroll.YearsOfService(e.HireDate, m.clock())
	accrued := m.schedule.DaysAccrued(years)

	taken := 0
	for _, entry := range m.vacationLedger {
		if entry.employeeID == id {
			taken += entry.days
		}
	}

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

func (m *Memory) ListOverlapping(_ context.Context, id requests.EmployeeID, typ requests.RequestType, start, end calendar.Date) ([]requests.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window := calendar.Period{Start: start, End: end}
	var out []requests.Request
	for _, rec := range m.records {
		if rec.EmployeeID != id || rec.Type != typ || rec.Status == requests.StatusRejected {
			continue
		}
		if rec.Span().Overlaps(window) {
			out = append(out, rec)
		}
	}
	sortByCreated(out, false)
	return out, nil
}

func (m *Memory) Insert(_ context.Context, nr requests.NewRequest) (*requests.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

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
	m.records[rec.ID] = rec
	return &rec, nil
}

func (m *Memory) Get(_ context.Context, id requests.RequestID) (*requests.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, requests.ErrNotFound)
	}
	return &rec, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id requests.RequestID, status requests.RequestStatus, approvedBy requests.EmployeeID, comment *string) (*requests.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, requests.ErrNotFound)
	}
	if rec.Status != requests.StatusPending {
		return nil, fmt.Errorf("request %s is %s: %w", id, rec.Status, requests.ErrAlreadyDecided)
	}

	rec.Status = status
	rec.ApprovedBy = &approvedBy
	if comment != nil {
		rec.Comment = *comment
	}
	rec.UpdatedAt = time.Now().UTC()
	m.records[id] = rec
	return &rec, nil
}

func (m *Memory) Delete(_ context.Context, id requests.RequestID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id, requests.ErrNotFound)
	}
	if rec.Status != requests.StatusPending {
		return fmt.Errorf("request %s is %s: %w", id, rec.Status, requests.ErrNotPending)
	}
	delete(m.records, id)
	return nil
}

func (m *Memory) ListPending(_ context.Context) ([]requests.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []requests.Request
	for _, rec := range m.records {
		if rec.Status == requests.StatusPending {
			out = append(out, rec)
		}
	}
	sortByCreated(out, false)
	return out, nil
}

func (m *Memory) ListByEmployee(_ context.Context, id requests.EmployeeID, f requests.Filter) ([]requests.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []requests.Request
	for _, rec := range m.records {
		if rec.EmployeeID != id {
			continue
		}
		if f.Type != nil && rec.Type != *f.Type {
			continue
		}
		if f.Status != nil && rec.Status != *f.Status {
			continue
		}
		out = append(out, rec)
	}
	sortByCreated(out, true)
	return out, nil
}

func sortByCreated(recs []requests.Request, newestFirst bool) {
	sort.Slice(recs, func(i, j int) bool {
		if newestFirst {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
}

// =============================================================================
// BOOKKEEPING PORTS
// =============================================================================

type ledgerEntry struct {
	employeeID requests.EmployeeID
	days       int
}

// RecordVacationTaken records consumed days. A request id that is
// already recorded is a no-op.
func (m *Memory) RecordVacationTaken(_ context.Context, employeeID requests.EmployeeID, requestID requests.RequestID, days int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, done := m.vacationLedger[requestID]; done {
		return nil
	}
	m.vacationLedger[requestID] = ledgerEntry{employeeID: employeeID, days: days}
	return nil
}

// RecordOvertimeHours records payable hours. A request id that is
// already recorded is a no-op.
func (m *Memory) RecordOvertimeHours(_ context.Context, _ requests.EmployeeID, requestID requests.RequestID, _ calendar.Date, hours decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, done := m.overtimeHours[requestID]; done {
		return nil
	}
	m.overtimeHours[requestID] = hours
	return nil
}

// OvertimeHoursRecorded returns the payable hours recorded for a request,
// or zero when none were.
func (m *Memory) OvertimeHoursRecorded(requestID requests.RequestID) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.overtimeHours[requestID]
}

// VacationDaysRecorded returns the consumed days recorded for a request.
func (m *Memory) VacationDaysRecorded(requestID requests.RequestID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vacationLedger[requestID].days
}

// Compile-time interface checks.
var (
	_ requests.Repository        = (*Memory)(nil)
	_ requests.EmployeeDirectory = (*Memory)(nil)
	_ requests.EntitlementLedger = (*Memory)(nil)
	_ requests.PayrollInput      = (*Memory)(nil)
)
