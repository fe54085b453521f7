/*
checker.go - Eligibility and overlap validation

PURPOSE:
  Decides whether a proposed request may be accepted BEFORE it is
  persisted. The checker is read-only: it consults the Repository and
  the calendar package and returns the first failing precondition, or
  nil for an acceptable proposal.

VACATION CHECKS (in order):
  1. InvalidRange            end before start
  2. EmployeeNotFound        unknown subject
  3. EmployeeInactive        deactivated subject
  4. InsufficientEntitlement zero or negative days pending
  5. OverlapConflict         collides with a pending/approved vacation

ENTITLEMENT GATE:
  The entitlement check is a gate, not an affordability check: it fails
  only when daysPending <= 0 and does not subtract the proposed span
  before evaluating. Rejected requests never block; pending and approved
  ones do.

OVERTIME CHECKS (in order):
  1. EmployeeNotFound / EmployeeInactive
  2. InvalidHours            hours <= 0 or hours > 12
  3. MissingJustification    blank comment
  4. DateOutOfWindow         after "now" or more than 30 days before it

CLOCK:
  "Now" is injected at construction so date-window tests are
  deterministic. Nothing here reads the global clock.

SEE ALSO:
  - lifecycle.go: callers run the checker before CreateVacation/CreateOvertime
*/
package requests

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/request-engine/calendar"
)

// =============================================================================
// LIMITS
// =============================================================================

var (
	// maxOvertimeHours caps a single overtime entry at a business day.
	maxOvertimeHours = decimal.NewFromInt(12)
)

// overtimeLookbackDays is how far in the past an overtime date may be.
const overtimeLookbackDays = 30

// =============================================================================
// CHECKER
// =============================================================================

type Checker struct {
	Repo Repository

	// Clock supplies "today" for window validation.
	Clock func() calendar.Date
}

func NewChecker(repo Repository, clock func() calendar.Date) *Checker {
	return &Checker{Repo: repo, Clock: clock}
}

// CheckVacation validates a proposed vacation window for an employee.
// Returns nil when the proposal may proceed to creation.
func (c *Checker) CheckVacation(ctx context.Context, employeeID EmployeeID, start, end calendar.Date) error {
	if end.Before(start) {
		return fmt.Errorf("vacation %s to %s: %w", start, end, ErrInvalidRange)
	}

	if err := c.checkSubject(ctx, employeeID); err != nil {
		return err
	}

	ent, err := c.Repo.GetEntitlement(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("entitlement lookup for employee %d: %w", employeeID, err)
	}
	if ent.DaysPending <= 0 {
		return &EntitlementError{EmployeeID: employeeID, Entitlement: ent}
	}

	existing, err := c.Repo.ListOverlapping(ctx, employeeID, TypeVacation, start, end)
	if err != nil {
		return fmt.Errorf("overlap lookup for employee %d: %w", employeeID, err)
	}
	if len(existing) > 0 {
		blocking := existing[0]
		return &OverlapError{
			EmployeeID: employeeID,
			Proposed:   calendar.Period{Start: start, End: end},
			Existing:   &blocking,
		}
	}

	return nil
}

// CheckOvertime validates a proposed overtime entry. Multiple overtime
// entries on the same day are permitted, so there is no overlap check.
func (c *Checker) CheckOvertime(ctx context.Context, employeeID EmployeeID, date calendar.Date, hours decimal.Decimal, comment string) error {
	if err := c.checkSubject(ctx, employeeID); err != nil {
		return err
	}

	if hours.LessThanOrEqual(decimal.Zero) || hours.GreaterThan(maxOvertimeHours) {
		return fmt.Errorf("overtime of %s hours: %w", hours, ErrInvalidHours)
	}

	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("overtime requires a comment: %w", ErrMissingJustification)
	}

	today := c.Clock()
	if date.After(today) || date.Before(today.AddDays(-overtimeLookbackDays)) {
		return fmt.Errorf("overtime date %s outside [%s, %s]: %w",
			date, today.AddDays(-overtimeLookbackDays), today, ErrDateOutOfWindow)
	}

	return nil
}

func (c *Checker) checkSubject(ctx context.Context, employeeID EmployeeID) error {
	exists, err := c.Repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("employee lookup %d: %w", employeeID, err)
	}
	if !exists {
		return fmt.Errorf("employee %d: %w", employeeID, ErrEmployeeNotFound)
	}

	active, err := c.Repo.IsActive(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("employee lookup %d: %w", employeeID, err)
	}
	if !active {
		return fmt.Errorf("employee %d: %w", employeeID, ErrEmployeeInactive)
	}
	return nil
}
