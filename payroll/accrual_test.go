package payroll_test

import (
	"testing"
	"time"

	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/payroll"
)

func TestDefaultSchedule_Tiers(t *testing.T) {
	s := payroll.DefaultSchedule()

	cases := []struct {
		years int
		want  int
	}{
		{0, 15},
		{1, 15},
		{2, 15},
		{3, 20},
		{4, 20},
		{5, 25},
		{12, 25},
	}
	for _, tc := range cases {
		if got := s.DaysAccrued(tc.years); got != tc.want {
			t.Errorf("%d years: expected %d days, got %d", tc.years, tc.want, got)
		}
	}
}

func TestYearsOfService(t *testing.T) {
	hire := calendar.NewDate(2020, time.June, 15)

	cases := []struct {
		ref  calendar.Date
		want int
	}{
		// Day before the anniversary: the year is not yet complete.
		{calendar.NewDate(2025, time.June, 14), 4},
		{calendar.NewDate(2025, time.June, 15), 5},
		{calendar.NewDate(2025, time.December, 1), 5},
		{calendar.NewDate(2020, time.July, 1), 0},
	}
	for _, tc := range cases {
		if got := payroll.YearsOfService(hire, tc.ref); got != tc.want {
			t.Errorf("ref %s: expected %d years, got %d", tc.ref, tc.want, got)
		}
	}
}

func TestYearsOfService_NeverNegative(t *testing.T) {
	hire := calendar.NewDate(2030, time.January, 1)
	ref := calendar.NewDate(2025, time.January, 1)

	if got := payroll.YearsOfService(hire, ref); got != 0 {
		t.Errorf("expected 0 for future hire date, got %d", got)
	}
}
