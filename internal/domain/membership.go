package domain

import "time"

// Principal is an authenticated identity, independent of any tenant.
type Principal struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Membership associates a principal with a tenant under a role.
type Membership struct {
	ID          string
	PrincipalID string
	TenantID    string
	Role        Role
	CreatedAt   time.Time
}

// Member is a membership joined with the principal it belongs to.
type Member struct {
	Principal Principal
	Role      Role
	JoinedAt  time.Time
}

// TenantContext is the membership selected for a single request.
type TenantContext struct {
	PrincipalID string
	TenantID    string
	Role        Role
}

// Scope returns the tenant predicate for scoped store access.
func (tc TenantContext) Scope() Scope {
	return Scope{tenantID: tc.TenantID}
}

// Scope restricts a store call to one tenant. It can only be obtained
// from a resolved TenantContext, so a scoped repository method cannot be
// reached with a caller-chosen tenant id.
type Scope struct {
	tenantID string
}

// TenantID returns the tenant the scope is bound to.
func (s Scope) TenantID() string {
	return s.tenantID
}

// IsZero reports whether the scope is unbound.
func (s Scope) IsZero() bool {
	return s.tenantID == ""
}

// ReasonTenantInactive is the blocked reason reported for suspended tenants.
const ReasonTenantInactive = "TENANT_INACTIVE"

// Decision is the outcome of a status gate check.
type Decision struct {
	Tenant  Tenant
	Blocked bool
	Reason  string
}

// Proceed reports whether the request may continue.
func (d Decision) Proceed() bool {
	return !d.Blocked
}
