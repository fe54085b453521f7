/*
lifecycle.go - Request state machine

PURPOSE:
  Drives every transition in a request's life:

    create ──▶ pending ──▶ approved  (entitlement/payroll side effect)
                     └───▶ rejected  (no side effect)
    delete: hard removal, pending only, owner or admin

ORDERING CONTRACT:
  Create runs the Checker itself, inside a per-employee critical section
  that also spans the insert. Two concurrent creations of overlapping
  vacation windows for the same employee therefore cannot both succeed:
  the second observes OverlapConflict.

DECISIONS:
  Approve/Reject delegate the check-then-mutate to the Repository's
  conditional UpdateStatus, so two concurrent decisions on the same
  request cannot both succeed; the loser observes AlreadyDecided. The
  bookkeeping side effect runs only after the transition, and the ledger
  ports are idempotent per request id, so a retried approval cannot
  double-count.

FAILURE SEMANTICS:
  All checks are synchronous preconditions. No retries, no partial
  mutation: any failure before the conditional update leaves the record
  untouched.

SEE ALSO:
  - checker.go: validation rules
  - policy.go:  role predicates
  - store.go:   Repository and ledger ports
*/
package requests

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/request-engine/calendar"
)

// =============================================================================
// LIFECYCLE SERVICE
// =============================================================================

type Lifecycle struct {
	Repo        Repository
	Checker     *Checker
	Entitlement EntitlementLedger
	Payroll     PayrollInput

	locks keyedMutex
}

func NewLifecycle(repo Repository, checker *Checker, ledger EntitlementLedger, payroll PayrollInput) *Lifecycle {
	return &Lifecycle{
		Repo:        repo,
		Checker:     checker,
		Entitlement: ledger,
		Payroll:     payroll,
	}
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   EmployeeID
	Role Role
}

// =============================================================================
// CREATE
// =============================================================================

// CreateVacation validates and persists a vacation request in pending
// state. The overlap check and the insert run under a per-employee lock
// so overlapping windows cannot be double-booked concurrently.
func (l *Lifecycle) CreateVacation(ctx context.Context, actor Actor, employeeID EmployeeID, start, end calendar.Date, comment string) (*Request, error) {
	if !CanCreateFor(actor.Role, actor.ID == employeeID) {
		return nil, fmt.Errorf("actor %d cannot request for employee %d: %w", actor.ID, employeeID, ErrForbidden)
	}

	unlock := l.locks.lock(employeeID)
	defer unlock()

	if err := l.Checker.CheckVacation(ctx, employeeID, start, end); err != nil {
		return nil, err
	}

	return l.Repo.Insert(ctx, NewRequest{
		EmployeeID: employeeID,
		Type:       TypeVacation,
		StartDate:  start,
		EndDate:    end,
		Comment:    comment,
	})
}

// CreateOvertime validates and persists an overtime entry in pending
// state. EndDate defaults to the work date. Multiple entries per day are
// permitted, so no serialization is needed here.
func (l *Lifecycle) CreateOvertime(ctx context.Context, actor Actor, employeeID EmployeeID, date calendar.Date, hours decimal.Decimal, comment string) (*Request, error) {
	if !CanCreateFor(actor.Role, actor.ID == employeeID) {
		return nil, fmt.Errorf("actor %d cannot request for employee %d: %w", actor.ID, employeeID, ErrForbidden)
	}

	if err := l.Checker.CheckOvertime(ctx, employeeID, date, hours, comment); err != nil {
		return nil, err
	}

	return l.Repo.Insert(ctx, NewRequest{
		EmployeeID: employeeID,
		Type:       TypeOvertime,
		StartDate:  date,
		EndDate:    date,
		Hours:      hours,
		Comment:    comment,
	})
}

// =============================================================================
// DECISIONS
// =============================================================================

// Approve transitions a pending request to approved and records the
// consumed days (vacation) or payable hours (overtime). A nil comment
// retains the requester's original comment.
func (l *Lifecycle) Approve(ctx context.Context, id RequestID, approver Actor, comment *string) (*Request, error) {
	if !CanDecide(approver.Role) {
		return nil, fmt.Errorf("role %s cannot decide requests: %w", approver.Role, ErrForbidden)
	}

	updated, err := l.Repo.UpdateStatus(ctx, id, StatusApproved, approver.ID, comment)
	if err != nil {
		return nil, err
	}

	// Bookkeeping runs only after the transition. The ports are keyed by
	// request id, so a replayed approval cannot double-count.
	switch updated.Type {
	case TypeVacation:
		days := updated.BusinessDays()
		if err := l.Entitlement.RecordVacationTaken(ctx, updated.EmployeeID, updated.ID, days); err != nil {
			return nil, fmt.Errorf("recording %d vacation days for request %s: %w", days, updated.ID, err)
		}
	case TypeOvertime:
		if err := l.Payroll.RecordOvertimeHours(ctx, updated.EmployeeID, updated.ID, updated.StartDate, updated.Hours); err != nil {
			return nil, fmt.Errorf("recording overtime hours for request %s: %w", updated.ID, err)
		}
	}

	return updated, nil
}

// Reject transitions a pending request to rejected. A rejection always
// requires a comment; rejected days and hours are never counted.
func (l *Lifecycle) Reject(ctx context.Context, id RequestID, approver Actor, comment string) (*Request, error) {
	if !CanDecide(approver.Role) {
		return nil, fmt.Errorf("role %s cannot decide requests: %w", approver.Role, ErrForbidden)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("rejection requires a comment: %w", ErrMissingJustification)
	}

	return l.Repo.UpdateStatus(ctx, id, StatusRejected, approver.ID, &comment)
}

// =============================================================================
// DELETE
// =============================================================================

// Delete hard-removes a pending request. Employees may only delete their
// own; admins may delete any. Decided requests are never removable.
func (l *Lifecycle) Delete(ctx context.Context, id RequestID, requester Actor) error {
	req, err := l.Repo.Get(ctx, id)
	if err != nil {
		return err
	}

	// The pending check repeats inside Repo.Delete as one atomic step;
	// this early exit only orders the error kinds.
	if req.Status != StatusPending {
		return fmt.Errorf("request %s is %s: %w", id, req.Status, ErrNotPending)
	}

	if !CanDeleteRequest(requester.Role, requester.ID == req.EmployeeID) {
		return fmt.Errorf("employee %d cannot delete request %s: %w", requester.ID, id, ErrForbidden)
	}

	return l.Repo.Delete(ctx, id)
}

// =============================================================================
// KEYED MUTEX - Per-employee critical sections
// =============================================================================

type keyedMutex struct {
	mu    sync.Mutex
	locks map[EmployeeID]*sync.Mutex
}

func (k *keyedMutex) lock(id EmployeeID) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[EmployeeID]*sync.Mutex)
	}
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
