package requests

// =============================================================================
// ROLE POLICY - Who may do what
// =============================================================================
// The authorization rules live here as explicit predicates instead of
// role comparisons scattered across call sites.

// Role is an employee's authority tier.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
)

// isPrivileged reports whether the role carries admin authority.
func (r Role) isPrivileged() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// CanDecide reports whether the role may approve or reject requests.
func CanDecide(role Role) bool {
	return role.isPrivileged()
}

// CanDeleteRequest reports whether the role may delete a pending request.
// An employee may only delete their own; admins may delete any.
// Status gating (pending only) is enforced separately by the lifecycle.
func CanDeleteRequest(role Role, isOwner bool) bool {
	if role.isPrivileged() {
		return true
	}
	return isOwner
}

// CanCreateFor reports whether the role may create a request on behalf of
// the given employee. An employee submits for self; admins for anyone.
func CanCreateFor(role Role, isSelf bool) bool {
	if role.isPrivileged() {
		return true
	}
	return isSelf
}
