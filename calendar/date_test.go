package calendar_test

import (
	"testing"
	"time"

	"github.com/warp/request-engine/calendar"
)

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 10 {
		t.Errorf("parsed wrong date: %s", d)
	}

	if _, err := calendar.ParseDate("10/03/2025"); err == nil {
		t.Error("expected error for non-ISO format")
	}
}

func TestDate_Ordering(t *testing.T) {
	a := calendar.NewDate(2025, time.March, 3)
	b := calendar.NewDate(2025, time.March, 5)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before is broken")
	}
	if !a.BeforeOrEqual(a) || !a.AfterOrEqual(a) {
		t.Error("a date must compare equal to itself")
	}
	if !b.After(a) {
		t.Error("After is broken")
	}
}

func TestDate_StartOfWeek(t *testing.T) {
	monday := calendar.NewDate(2025, time.March, 10)

	cases := []struct {
		day  int
		name string
	}{
		{10, "Monday"},
		{12, "Wednesday"},
		{15, "Saturday"},
		{16, "Sunday"},
	}
	for _, tc := range cases {
		d := calendar.NewDate(2025, time.March, tc.day)
		if got := d.StartOfWeek(); !got.Equal(monday) {
			t.Errorf("%s: expected week start %s, got %s", tc.name, monday, got)
		}
	}
}

func TestDate_MonthBounds(t *testing.T) {
	d := calendar.NewDate(2024, time.February, 10)

	if got := d.StartOfMonth(); !got.Equal(calendar.NewDate(2024, time.February, 1)) {
		t.Errorf("wrong start of month: %s", got)
	}
	// 2024 is a leap year.
	if got := d.EndOfMonth(); !got.Equal(calendar.NewDate(2024, time.February, 29)) {
		t.Errorf("wrong end of month: %s", got)
	}
}

func TestDate_BusinessDayClassification(t *testing.T) {
	if !calendar.NewDate(2025, time.March, 12).IsBusinessDay() {
		t.Error("Wednesday should be a business day")
	}
	if calendar.NewDate(2025, time.March, 8).IsBusinessDay() {
		t.Error("Saturday should not be a business day")
	}
	if !calendar.NewDate(2025, time.March, 9).IsWeekend() {
		t.Error("Sunday should be a weekend day")
	}
}
