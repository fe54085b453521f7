/*
Package payroll provides entitlement accrual and payroll scheduling helpers.

PURPOSE:
  Vacation entitlement grows with tenure: an employee's annual day grant
  is a function of completed years of service. This package owns that
  function as a configurable tier schedule, plus the years-of-service
  arithmetic it needs.

ACCRUAL MODEL:
  Tiers are (AfterYears, AnnualDays) pairs sorted by AfterYears. The
  grant for an employee is the AnnualDays of the highest tier whose
  AfterYears does not exceed their completed years of service.

  Example with the default schedule:
    0-2 years  -> 15 days
    3-4 years  -> 20 days
    5+ years   -> 25 days

DETERMINISM:
  Everything here is a pure function of (hire date, reference date).
  Callers inject the reference date; nothing reads a clock.

SEE ALSO:
  - requests/checker.go: consumes the derived entitlement as a gate
  - store/sqlite:        combines accrual with the consumption ledger
*/
package payroll

import (
	"github.com/warp/request-engine/calendar"
)

// =============================================================================
// TENURE TIERS
// =============================================================================

// Tier grants AnnualDays per year once an employee has completed
// AfterYears years of service.
type Tier struct {
	AfterYears int
	AnnualDays int
}

// Schedule is an ordered set of tenure tiers.
type Schedule struct {
	Tiers []Tier
}

// DefaultSchedule returns the standard tenure ladder.
func DefaultSchedule() Schedule {
	return Schedule{Tiers: []Tier{
		{AfterYears: 0, AnnualDays: 15},
		{AfterYears: 3, AnnualDays: 20},
		{AfterYears: 5, AnnualDays: 25},
	}}
}

// DaysAccrued returns the annual vacation grant for an employee with the
// given completed years of service. Years below every tier accrue nothing.
func (s Schedule) DaysAccrued(yearsOfService int) int {
	days := 0
	for _, tier := range s.Tiers {
		if yearsOfService >= tier.AfterYears {
			days = tier.AnnualDays
		}
	}
	return days
}

// =============================================================================
// YEARS OF SERVICE
// =============================================================================

// YearsOfService returns completed years between hire date and the
// reference date. Never negative.
func YearsOfService(hireDate, ref calendar.Date) int {
	if ref.Before(hireDate) {
		return 0
	}
	years := ref.Year() - hireDate.Year()
	anniversary := hireDate.AddYears(years)
	if ref.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
