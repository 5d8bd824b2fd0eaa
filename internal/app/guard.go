package app

import "github.com/neomorfeo/tenantpos/internal/domain"

// AccessGuard checks a resolved role against an operation's requirement.
type AccessGuard struct{}

// Authorize allows the call when tc is bound to the requested tenantID and
// its role meets req. A context for another tenant is denied whatever its
// role, except superAdmin which administers every tenant. An empty tenantID
// names no tenant, so only superAdmin passes it.
func (AccessGuard) Authorize(tc domain.TenantContext, tenantID string, req domain.Requirement) error {
	if tc.Role != domain.RoleSuperAdmin && tc.TenantID != tenantID {
		return domain.ErrUnauthorized
	}
	if !req.Allows(tc.Role) {
		return domain.ErrUnauthorized
	}
	return nil
}
