/*
errors.go - Centralized error taxonomy for the request lifecycle

PURPOSE:
  Every failure mode is a typed, sentinel-backed error. The HTTP layer
  maps each kind to a client status; this package never logs and never
  retries. Any failure aborts with no partial mutation.

ERROR CATEGORIES:
  1. Subject errors    - the employee the request is about
  2. Validation errors - proposal shape (range, hours, comment, window)
  3. Conflict errors   - overlap, already-decided, not-pending
  4. Authority errors  - role-based denial

USAGE:
  if errors.Is(err, requests.ErrOverlapConflict) {
      // map to 409
  }
*/
package requests

import (
	"errors"
	"fmt"

	"github.com/warp/request-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when the subject employee does not exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmployeeInactive is returned when the subject employee is deactivated.
	ErrEmployeeInactive = errors.New("employee inactive")

	// ErrInvalidRange is returned when endDate is before startDate.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidHours is returned for overtime hours outside (0, 12].
	ErrInvalidHours = errors.New("invalid hours")

	// ErrMissingJustification is returned for overtime without a comment,
	// and for a rejection without one.
	ErrMissingJustification = errors.New("missing justification")

	// ErrDateOutOfWindow is returned for an overtime date in the future or
	// more than 30 days in the past.
	ErrDateOutOfWindow = errors.New("date out of window")

	// ErrInsufficientEntitlement is returned when the employee has no
	// vacation days pending at call time.
	ErrInsufficientEntitlement = errors.New("insufficient entitlement")

	// ErrOverlapConflict is returned when a vacation window collides with an
	// existing non-rejected vacation request for the same employee.
	ErrOverlapConflict = errors.New("overlapping vacation request")

	// ErrNotFound is returned when an operation references a request that
	// does not exist.
	ErrNotFound = errors.New("request not found")

	// ErrAlreadyDecided is returned when a decision targets a request that
	// is no longer pending. Terminal states are immutable.
	ErrAlreadyDecided = errors.New("request already decided")

	// ErrNotPending is returned when a deletion targets a non-pending request.
	ErrNotPending = errors.New("request not pending")

	// ErrForbidden is returned when the caller's role does not permit
	// the operation.
	ErrForbidden = errors.New("forbidden")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OverlapError reports which existing request blocks the proposed window.
type OverlapError struct {
	EmployeeID EmployeeID
	Proposed   calendar.Period
	Existing   *Request
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("vacation %s overlaps existing request %s (%s, %s)",
		e.Proposed, e.Existing.ID, e.Existing.Span(), e.Existing.Status)
}

func (e *OverlapError) Unwrap() error { return ErrOverlapConflict }

// EntitlementError reports the balance that failed the gate.
type EntitlementError struct {
	EmployeeID  EmployeeID
	Entitlement Entitlement
}

func (e *EntitlementError) Error() string {
	return fmt.Sprintf("employee %d has no vacation days pending (accrued %d, taken %d)",
		e.EmployeeID, e.Entitlement.DaysAccrued, e.Entitlement.DaysTaken)
}

func (e *EntitlementError) Unwrap() error { return ErrInsufficientEntitlement }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true when the failure is due to the caller's input
// or state, not the system. The HTTP layer maps these to 4xx.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrEmployeeInactive) ||
		errors.Is(err, ErrInvalidHours) ||
		errors.Is(err, ErrMissingJustification) ||
		errors.Is(err, ErrDateOutOfWindow) ||
		errors.Is(err, ErrInsufficientEntitlement) ||
		errors.Is(err, ErrOverlapConflict) ||
		errors.Is(err, ErrAlreadyDecided) ||
		errors.Is(err, ErrNotPending) ||
		errors.Is(err, ErrForbidden) ||
		IsNotFound(err)
}

// IsNotFound returns true when the error indicates a missing subject.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
