package requests

import "testing"

func TestCanDecide(t *testing.T) {
	if CanDecide(RoleEmployee) {
		t.Error("employees must not decide requests")
	}
	if !CanDecide(RoleAdmin) || !CanDecide(RoleSuperadmin) {
		t.Error("admins and superadmins must decide requests")
	}
}

func TestCanDeleteRequest(t *testing.T) {
	cases := []struct {
		role    Role
		isOwner bool
		want    bool
	}{
		{RoleEmployee, true, true},
		{RoleEmployee, false, false},
		{RoleAdmin, false, true},
		{RoleSuperadmin, false, true},
	}
	for _, tc := range cases {
		if got := CanDeleteRequest(tc.role, tc.isOwner); got != tc.want {
			t.Errorf("CanDeleteRequest(%s, owner=%v) = %v, want %v", tc.role, tc.isOwner, got, tc.want)
		}
	}
}

func TestCanCreateFor(t *testing.T) {
	if !CanCreateFor(RoleEmployee, true) {
		t.Error("an employee must be able to file for self")
	}
	if CanCreateFor(RoleEmployee, false) {
		t.Error("an employee must not file for others")
	}
	if !CanCreateFor(RoleAdmin, false) {
		t.Error("an admin must be able to file for anyone")
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("pending is not terminal")
	}
	if !StatusApproved.IsTerminal() || !StatusRejected.IsTerminal() {
		t.Error("approved and rejected are terminal")
	}
}
