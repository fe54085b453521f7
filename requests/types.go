/*
Package requests implements the vacation/overtime request lifecycle.

PURPOSE:
  Models an employee request from submission through decision:

    pending ──▶ approved   (terminal)
         └────▶ rejected   (terminal)

  Two components cooperate:
  - Checker:   validates a proposal BEFORE it is persisted (eligibility,
               date window, overlap against existing requests)
  - Lifecycle: drives state transitions and their bookkeeping side effects
               (entitlement consumption, payable overtime hours)

KEY CONCEPTS IN THIS FILE (types.go):
  - Request:      The central entity with immutable type/employee/dates
  - RequestType:  vacation | overtime
  - RequestStatus: pending | approved | rejected
  - Role:         superadmin | admin | employee (see policy.go)
  - Entitlement:  Derived vacation balance for an employee

DESIGN PRINCIPLES:
  1. Immutability: type, employee, and dates never change after creation;
     terminal statuses never transition again
  2. Precision: overtime hours use decimal.Decimal, never float64
  3. Injected time: validation takes "now" as a parameter, never reads
     a global clock

SEE ALSO:
  - checker.go:   pre-persistence validation
  - lifecycle.go: state machine and side-effect ports
  - store.go:     Repository contract
*/
package requests

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/request-engine/calendar"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RequestID string
type EmployeeID int64

// =============================================================================
// ENUMS
// =============================================================================

type RequestType string

const (
	TypeVacation RequestType = "vacation"
	TypeOvertime RequestType = "overtime"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// =============================================================================
// REQUEST - The central entity
// =============================================================================

// Request is an employee's vacation or overtime request.
// EmployeeID and Type are immutable after creation. For overtime,
// StartDate is the sole work date and EndDate equals StartDate.
type Request struct {
	ID         RequestID
	EmployeeID EmployeeID
	Type       RequestType
	StartDate  calendar.Date
	EndDate    calendar.Date

	// Overtime only: worked hours, > 0.
	Hours decimal.Decimal

	Comment string

	Status     RequestStatus
	ApprovedBy *EmployeeID // nil until a decision is made

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Span returns the request's inclusive date range.
func (r *Request) Span() calendar.Period {
	return calendar.Period{Start: r.StartDate, End: r.EndDate}
}

// BusinessDays returns the Mon-Fri day count of the span. This is the
// quantity consumed from entitlement when a vacation is approved.
func (r *Request) BusinessDays() int {
	return calendar.CountBusinessDays(r.StartDate, r.EndDate)
}

// CalendarDays returns the inclusive whole-day span (display only).
func (r *Request) CalendarDays() int {
	return calendar.CountCalendarDays(r.StartDate, r.EndDate)
}

// NewRequest carries the caller-supplied fields for an insert.
// The Repository assigns ID, Status (always pending) and CreatedAt.
type NewRequest struct {
	EmployeeID EmployeeID
	Type       RequestType
	StartDate  calendar.Date
	EndDate    calendar.Date
	Hours      decimal.Decimal
	Comment    string
}

// =============================================================================
// EMPLOYEE (external collaborator, referenced only)
// =============================================================================

// Employee is the referenced subject of a request. Owned by the
// Repository collaborator; this package only reads it.
type Employee struct {
	ID       EmployeeID
	Name     string
	HireDate calendar.Date
	Role     Role
	Active   bool
}

// =============================================================================
// ENTITLEMENT - Derived vacation balance
// =============================================================================

// Entitlement is the derived vacation balance for an employee at a point
// in time. DaysPending is accrued minus taken, floored at zero for
// reporting.
type Entitlement struct {
	DaysAccrued    int
	DaysTaken      int
	DaysPending    int
	YearsOfService int
}

// =============================================================================
// LIST FILTER
// =============================================================================

// Filter narrows ListByEmployee results. Nil fields match everything.
type Filter struct {
	Type   *RequestType
	Status *RequestStatus
}
