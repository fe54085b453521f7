package calendar

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive [Start, End] range of calendar days.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps reports whether two inclusive ranges share at least one day:
// [a1,a2] and [b1,b2] intersect iff a1 <= b2 AND b1 <= a2.
// The relation is symmetric, and every period overlaps itself.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Days returns every day in the period.
func (p Period) Days() []Date {
	var days []Date
	for cur := p.Start; cur.BeforeOrEqual(p.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// DAY COUNTING
// =============================================================================

// CountCalendarDays returns the inclusive whole-day span of [start, end].
// Returns 0 when end is before start. Display use only; entitlement
// bookkeeping uses CountBusinessDays.
func CountCalendarDays(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	return int(end.t.Sub(start.t).Hours()/24) + 1
}

// CountBusinessDays returns the number of Monday-Friday days in the
// inclusive range [start, end]. Returns 0 (never negative) when end is
// before start. Holidays are not modeled.
func CountBusinessDays(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for cur := start; cur.BeforeOrEqual(end); cur = cur.AddDays(1) {
		if cur.IsBusinessDay() {
			count++
		}
	}
	return count
}

// =============================================================================
// PAY-PERIOD SUGGESTION - Default boundaries for a payroll-run form
// =============================================================================

// PayPeriods holds the pre-computed pay-period candidates for a
// reference date. Advisory only: these pre-fill a payroll form and carry
// no correctness obligation beyond the stated rules.
type PayPeriods struct {
	Biweekly Period
	Weekly   Period
	Monthly  Period
}

// SuggestedPeriods computes the half-month, week, and month windows
// containing the reference date.
//
// Rules:
//   - Biweekly: day <= 15 gives [1st, 15th]; otherwise [16th, end of month]
//   - Weekly:   the Monday-Sunday week containing ref
//   - Monthly:  [1st, end of month]
func SuggestedPeriods(ref Date) PayPeriods {
	var biweekly Period
	if ref.Day() <= 15 {
		biweekly = Period{
			Start: ref.StartOfMonth(),
			End:   NewDate(ref.Year(), ref.Month(), 15),
		}
	} else {
		biweekly = Period{
			Start: NewDate(ref.Year(), ref.Month(), 16),
			End:   ref.EndOfMonth(),
		}
	}

	monday := ref.StartOfWeek()

	return PayPeriods{
		Biweekly: biweekly,
		Weekly:   Period{Start: monday, End: monday.AddDays(6)},
		Monthly:  Period{Start: ref.StartOfMonth(), End: ref.EndOfMonth()},
	}
}
