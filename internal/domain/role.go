package domain

import "fmt"

// Role is the privilege a principal holds inside one tenant.
//
// Roles form a partial order. RoleSuperAdmin is above every other role.
// RoleAdmin and RoleCashier are not comparable: an admin does not
// implicitly hold cashier privileges and neither role carries any
// privilege outside the tenant its membership belongs to.
type Role string

const (
	RoleSuperAdmin Role = "superAdmin"
	RoleAdmin      Role = "admin"
	RoleCashier    Role = "cashier"
)

// Roles lists every known role.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleCashier}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", s)}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Covers reports whether a holder of r satisfies a requirement for
// required within the same tenant.
func (r Role) Covers(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r == RoleSuperAdmin || r == required
}

// CanGrant reports whether a holder of r may assign or revoke target.
// Nobody can hand out a role above their own: superAdmin grants anything,
// admin grants only cashier.
func (r Role) CanGrant(target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return target.Valid()
	case RoleAdmin:
		return target == RoleCashier
	default:
		return false
	}
}

// Requirement is the privilege an operation declares up front.
type Requirement struct {
	superAdminOnly bool
	roles          []Role
}

// SuperAdminOnly is satisfied by superAdmin alone.
func SuperAdminOnly() Requirement {
	return Requirement{superAdminOnly: true}
}

// AnyOf is satisfied by any of the listed roles, and by superAdmin.
func AnyOf(roles ...Role) Requirement {
	return Requirement{roles: roles}
}

// Allows reports whether role meets the requirement.
func (q Requirement) Allows(role Role) bool {
	if q.superAdminOnly {
		return role == RoleSuperAdmin
	}
	for _, r := range q.roles {
		if role.Covers(r) {
			return true
		}
	}
	return false
}

func (q Requirement) String() string {
	if q.superAdminOnly {
		return "superAdmin"
	}
	return fmt.Sprint(q.roles)
}
