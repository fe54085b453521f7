package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/payroll"
	"github.com/warp/request-engine/requests"
	"github.com/warp/request-engine/store/sqlite"
)

func today() calendar.Date {
	return calendar.NewDate(2025, time.March, 17)
}

// newStore opens a store backed by a throwaway database file and seeds
// one active employee (id 1, hired 2019, so 5 years of service).
func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), payroll.DefaultSchedule(), today)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.CreateEmployee(context.Background(), requests.Employee{
		ID:       1,
		Name:     "Ana Silva",
		HireDate: calendar.NewDate(2019, time.June, 1),
		Role:     requests.RoleEmployee,
		Active:   true,
	})
	require.NoError(t, err)
	return st
}

func insertVacation(t *testing.T, st *sqlite.Store, start, end calendar.Date) *requests.Request {
	t.Helper()
	rec, err := st.Insert(context.Background(), requests.NewRequest{
		EmployeeID: 1,
		Type:       requests.TypeVacation,
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)
	return rec
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestCreateEmployee_AssignsIDWhenZero(t *testing.T) {
	st := newStore(t)

	e, err := st.CreateEmployee(context.Background(), requests.Employee{
		Name:     "Bram Okafor",
		HireDate: calendar.NewDate(2022, time.January, 10),
		Active:   true,
	})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	// Role defaults when unset.
	assert.Equal(t, requests.RoleEmployee, e.Role)

	got, err := st.GetEmployee(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bram Okafor", got.Name)
	assert.True(t, got.HireDate.Equal(calendar.NewDate(2022, time.January, 10)))
}

func TestGetEmployee_NotFound(t *testing.T) {
	st := newStore(t)

	_, err := st.GetEmployee(context.Background(), 999)
	assert.ErrorIs(t, err, requests.ErrEmployeeNotFound)
}

func TestEmployeeExists_And_IsActive(t *testing.T) {
	st := newStore(t)
	_, err := st.CreateEmployee(context.Background(), requests.Employee{
		ID: 2, Name: "Cleo Marsh", HireDate: calendar.NewDate(2021, time.February, 1), Active: false,
	})
	require.NoError(t, err)

	ok, err := st.EmployeeExists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.EmployeeExists(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)

	active, err := st.IsActive(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = st.IsActive(context.Background(), 999)
	assert.ErrorIs(t, err, requests.ErrEmployeeNotFound)
}

func TestGetEntitlement_ComputesFromLedger(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.RecordVacationTaken(context.Background(), 1, "req-a", 4))
	require.NoError(t, st.RecordVacationTaken(context.Background(), 1, "req-b", 3))

	ent, err := st.GetEntitlement(context.Background(), 1)
	require.NoError(t, err)

	// Hired 2019-06-01, clock 2025-03-17: 5 full years, top tier.
	assert.Equal(t, 5, ent.YearsOfService)
	assert.Equal(t, 25, ent.DaysAccrued)
	assert.Equal(t, 7, ent.DaysTaken)
	assert.Equal(t, 18, ent.DaysPending)
}

// =============================================================================
// REQUESTS
// =============================================================================

func TestInsertAndGet_Roundtrip(t *testing.T) {
	st := newStore(t)
	hours := decimal.RequireFromString("2.5")

	rec, err := st.Insert(context.Background(), requests.NewRequest{
		EmployeeID: 1,
		Type:       requests.TypeOvertime,
		StartDate:  calendar.NewDate(2025, time.March, 14),
		EndDate:    calendar.NewDate(2025, time.March, 14),
		Hours:      hours,
		Comment:    "release support",
	})
	require.NoError(t, err)

	got, err := st.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, requests.TypeOvertime, got.Type)
	assert.Equal(t, requests.StatusPending, got.Status)
	assert.True(t, got.Hours.Equal(hours))
	assert.Equal(t, "release support", got.Comment)
	assert.Nil(t, got.ApprovedBy)
}

func TestGet_NotFound(t *testing.T) {
	st := newStore(t)

	_, err := st.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, requests.ErrNotFound)
}

func TestListOverlapping_InclusiveBounds(t *testing.T) {
	st := newStore(t)
	insertVacation(t, st,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))

	cases := []struct {
		name       string
		start, end calendar.Date
		want       int
	}{
		{"identical window", calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11), 1},
		{"touching at start", calendar.NewDate(2025, time.April, 4), calendar.NewDate(2025, time.April, 7), 1},
		{"touching at end", calendar.NewDate(2025, time.April, 11), calendar.NewDate(2025, time.April, 15), 1},
		{"strictly inside", calendar.NewDate(2025, time.April, 9), calendar.NewDate(2025, time.April, 9), 1},
		{"day before", calendar.NewDate(2025, time.April, 1), calendar.NewDate(2025, time.April, 6), 0},
		{"day after", calendar.NewDate(2025, time.April, 12), calendar.NewDate(2025, time.April, 20), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.ListOverlapping(context.Background(), 1, requests.TypeVacation, tc.start, tc.end)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestListOverlapping_ExcludesRejected(t *testing.T) {
	st := newStore(t)
	rec := insertVacation(t, st,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))
	comment := "coverage gap"
	_, err := st.UpdateStatus(context.Background(), rec.ID, requests.StatusRejected, 2, &comment)
	require.NoError(t, err)

	got, err := st.ListOverlapping(context.Background(), 1, requests.TypeVacation,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateStatus_SecondDecisionLoses(t *testing.T) {
	st := newStore(t)
	rec := insertVacation(t, st,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))

	updated, err := st.UpdateStatus(context.Background(), rec.ID, requests.StatusApproved, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, requests.StatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, requests.EmployeeID(2), *updated.ApprovedBy)

	_, err = st.UpdateStatus(context.Background(), rec.ID, requests.StatusRejected, 2, nil)
	assert.ErrorIs(t, err, requests.ErrAlreadyDecided)
}

func TestUpdateStatus_UnknownRequest(t *testing.T) {
	st := newStore(t)

	_, err := st.UpdateStatus(context.Background(), "no-such-id", requests.StatusApproved, 2, nil)
	assert.ErrorIs(t, err, requests.ErrNotFound)
}

func TestUpdateStatus_NilCommentRetainsOriginal(t *testing.T) {
	st := newStore(t)
	rec, err := st.Insert(context.Background(), requests.NewRequest{
		EmployeeID: 1,
		Type:       requests.TypeVacation,
		StartDate:  calendar.NewDate(2025, time.April, 7),
		EndDate:    calendar.NewDate(2025, time.April, 11),
		Comment:    "family trip",
	})
	require.NoError(t, err)

	updated, err := st.UpdateStatus(context.Background(), rec.ID, requests.StatusApproved, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "family trip", updated.Comment)
}

func TestDelete_PendingOnly(t *testing.T) {
	st := newStore(t)

	pending := insertVacation(t, st,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))
	require.NoError(t, st.Delete(context.Background(), pending.ID))
	_, err := st.Get(context.Background(), pending.ID)
	assert.ErrorIs(t, err, requests.ErrNotFound)

	decided := insertVacation(t, st,
		calendar.NewDate(2025, time.May, 5), calendar.NewDate(2025, time.May, 9))
	_, err = st.UpdateStatus(context.Background(), decided.ID, requests.StatusApproved, 2, nil)
	require.NoError(t, err)
	err = st.Delete(context.Background(), decided.ID)
	assert.ErrorIs(t, err, requests.ErrNotPending)

	err = st.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, requests.ErrNotFound)
}

func TestListByEmployee_Filters(t *testing.T) {
	st := newStore(t)
	vac := insertVacation(t, st,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))
	_, err := st.Insert(context.Background(), requests.NewRequest{
		EmployeeID: 1,
		Type:       requests.TypeOvertime,
		StartDate:  calendar.NewDate(2025, time.March, 14),
		EndDate:    calendar.NewDate(2025, time.March, 14),
		Hours:      decimal.NewFromInt(2),
		Comment:    "deploy",
	})
	require.NoError(t, err)
	_, err = st.UpdateStatus(context.Background(), vac.ID, requests.StatusApproved, 2, nil)
	require.NoError(t, err)

	all, err := st.ListByEmployee(context.Background(), 1, requests.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	typ := requests.TypeVacation
	vacs, err := st.ListByEmployee(context.Background(), 1, requests.Filter{Type: &typ})
	require.NoError(t, err)
	require.Len(t, vacs, 1)
	assert.Equal(t, vac.ID, vacs[0].ID)

	status := requests.StatusPending
	pending, err := st.ListByEmployee(context.Background(), 1, requests.Filter{Status: &status})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, requests.TypeOvertime, pending[0].Type)
}

func TestListPending(t *testing.T) {
	st := newStore(t)
	a := insertVacation(t, st,
		calendar.NewDate(2025, time.April, 7), calendar.NewDate(2025, time.April, 11))
	b := insertVacation(t, st,
		calendar.NewDate(2025, time.May, 5), calendar.NewDate(2025, time.May, 9))
	_, err := st.UpdateStatus(context.Background(), a.ID, requests.StatusApproved, 2, nil)
	require.NoError(t, err)

	pending, err := st.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

// =============================================================================
// BOOKKEEPING
// =============================================================================

func TestRecordVacationTaken_IdempotentPerRequest(t *testing.T) {
	st := newStore(t)

	require.NoError(t, st.RecordVacationTaken(context.Background(), 1, "req-a", 5))
	// A replay of the same request id must not double-count.
	require.NoError(t, st.RecordVacationTaken(context.Background(), 1, "req-a", 5))

	ent, err := st.GetEntitlement(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, ent.DaysTaken)
}

func TestRecordOvertimeHours_IdempotentAndSummed(t *testing.T) {
	st := newStore(t)
	day := calendar.NewDate(2025, time.March, 14)

	require.NoError(t, st.RecordOvertimeHours(context.Background(), 1, "req-a", day, decimal.RequireFromString("2.5")))
	require.NoError(t, st.RecordOvertimeHours(context.Background(), 1, "req-a", day, decimal.RequireFromString("2.5")))
	require.NoError(t, st.RecordOvertimeHours(context.Background(), 1, "req-b", day, decimal.NewFromInt(3)))

	total, err := st.OvertimeHoursRecorded(context.Background(), 1, day, day)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("5.5")), "got %s", total)
}

func TestDaysPending_FlooredAtZero(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.RecordVacationTaken(context.Background(), 1, "req-a", 30))

	ent, err := st.GetEntitlement(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 30, ent.DaysTaken)
	assert.Equal(t, 0, ent.DaysPending)
}
