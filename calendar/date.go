/*
Package calendar provides pure date arithmetic for the request engine.

PURPOSE:
  Everything in this package is a pure function over calendar dates:
  no I/O, no clocks, no side effects. The rest of the system passes
  "now" in explicitly, which keeps date-boundary behavior deterministic
  and testable.

KEY CONCEPTS:
  - Date:   A calendar day with no time component (always UTC)
  - Period: An inclusive [Start, End] date range

SEE ALSO:
  - period.go: Period, day counting, pay-period suggestion
*/
package calendar

import (
	"time"
)

// =============================================================================
// DATE - Calendar day, no time component
// =============================================================================

// Date is a calendar day. The zero value is the zero time.
// All dates are normalized to midnight UTC so comparisons are exact.
type Date struct {
	t time.Time
}

// NewDate constructs a Date for the given year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date ("2006-01-02").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.t.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.t.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.t.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) IsBusinessDay() bool { return !d.IsWeekend() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// MONTH / WEEK BOUNDARIES
// =============================================================================

// StartOfMonth returns the first day of the date's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of the date's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1).AddMonths(1).AddDays(-1)
}

// StartOfWeek returns the Monday of the week containing the date.
func (d Date) StartOfWeek() Date {
	// time.Weekday puts Sunday at 0; shift so Monday is the origin.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}
