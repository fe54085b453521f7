/*
store.go - Persistence contract consumed by the request lifecycle

PURPOSE:
  Defines the narrow interface between the lifecycle/checker and whatever
  holds the records. Implementations exist for SQLite (production) and
  in-memory (testing/dev). The lifecycle never caches results across
  calls; every operation reads a consistent snapshot through this
  interface.

ATOMICITY CONTRACT:
  UpdateStatus and Delete are single atomic check-then-mutate steps:
  - UpdateStatus only succeeds while the row is still pending; a
    concurrent second decision must observe ErrAlreadyDecided.
  - Delete only removes a pending row; otherwise ErrNotPending.

IDEMPOTENCY:
  The bookkeeping ports key every entry by request id. Recording the
  same request twice is a no-op, so a retried approval cannot
  double-count days or hours.

IMPLEMENTATIONS:
  - store/sqlite:        production store
  - requests/store:      in-memory store

SEE ALSO:
  - lifecycle.go: drives UpdateStatus/Delete and the ledger ports
  - checker.go:   reads entitlement and overlapping requests
*/
package requests

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/request-engine/calendar"
)

// =============================================================================
// REPOSITORY - Request and employee persistence
// =============================================================================

type Repository interface {
	// EmployeeExists reports whether the employee id references a record.
	EmployeeExists(ctx context.Context, id EmployeeID) (bool, error)

	// IsActive reports whether the employee is active. Returns
	// ErrEmployeeNotFound for unknown ids.
	IsActive(ctx context.Context, id EmployeeID) (bool, error)

	// GetEntitlement returns the derived vacation balance for an employee.
	GetEntitlement(ctx context.Context, id EmployeeID) (Entitlement, error)

	// ListOverlapping returns requests of the given type for the employee
	// whose date range intersects [start, end] inclusively, excluding
	// rejected ones (pending and approved both block).
	ListOverlapping(ctx context.Context, id EmployeeID, typ RequestType, start, end calendar.Date) ([]Request, error)

	// Insert persists a new request with status pending and a fresh id.
	Insert(ctx context.Context, nr NewRequest) (*Request, error)

	// Get returns the request or ErrNotFound.
	Get(ctx context.Context, id RequestID) (*Request, error)

	// UpdateStatus transitions a pending request to a terminal status,
	// recording the approver and, when comment is non-nil, overwriting the
	// comment. Returns ErrNotFound for unknown ids and ErrAlreadyDecided
	// when the request is no longer pending. The check and write are one
	// atomic step.
	UpdateStatus(ctx context.Context, id RequestID, status RequestStatus, approvedBy EmployeeID, comment *string) (*Request, error)

	// Delete hard-removes a pending request. Returns ErrNotFound for
	// unknown ids and ErrNotPending for decided ones. Atomic
	// check-then-remove.
	Delete(ctx context.Context, id RequestID) error

	// ListPending returns all pending requests, oldest first.
	ListPending(ctx context.Context) ([]Request, error)

	// ListByEmployee returns the employee's requests matching the filter,
	// newest first.
	ListByEmployee(ctx context.Context, id EmployeeID, f Filter) ([]Request, error)
}

// =============================================================================
// EMPLOYEE DIRECTORY - Extended store surface for the HTTP layer
// =============================================================================

// EmployeeDirectory extends the Repository with employee management.
// The lifecycle itself never needs this; the HTTP layer does.
type EmployeeDirectory interface {
	CreateEmployee(ctx context.Context, e Employee) (*Employee, error)
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// =============================================================================
// BOOKKEEPING PORTS - Side effects of approval
// =============================================================================
// Explicit, idempotent interfaces invoked only after a successful
// transition to approved.

// EntitlementLedger records consumed vacation days. Entries are keyed by
// request id; recording the same request again must be a no-op.
type EntitlementLedger interface {
	RecordVacationTaken(ctx context.Context, employeeID EmployeeID, requestID RequestID, days int) error
}

// PayrollInput records payable overtime hours. Entries are keyed by
// request id; recording the same request again must be a no-op.
type PayrollInput interface {
	RecordOvertimeHours(ctx context.Context, employeeID EmployeeID, requestID RequestID, date calendar.Date, hours decimal.Decimal) error
}
