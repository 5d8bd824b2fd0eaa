package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// GateObserver is told about every decision the gate makes.
type GateObserver interface {
	Observe(ctx context.Context, tc domain.TenantContext, d domain.Decision)
}

// StatusGate decides whether a tenant's lifecycle state lets a request through.
// It reads the tenant on every call and keeps no state between calls.
type StatusGate struct {
	tenants   domain.TenantRepository
	observers []GateObserver
}

// NewStatusGate creates a gate reading from the given repository.
func NewStatusGate(tenants domain.TenantRepository, observers ...GateObserver) *StatusGate {
	return &StatusGate{tenants: tenants, observers: observers}
}

// Check returns Proceed for superAdmin regardless of status, and blocks
// every other role unless the tenant is active.
func (g *StatusGate) Check(ctx context.Context, tc domain.TenantContext) (domain.Decision, error) {
	tenant, err := g.tenants.GetByID(ctx, tc.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return domain.Decision{}, domain.ErrNoMembership
		}
		return domain.Decision{}, fmt.Errorf("reading tenant status: %w", err)
	}

	d := domain.Decision{Tenant: tenant}
	if tc.Role != domain.RoleSuperAdmin && tenant.Status != domain.StatusActive {
		d.Blocked = true
		d.Reason = domain.ReasonTenantInactive
	}

	for _, o := range g.observers {
		o.Observe(ctx, tc, d)
	}
	return d, nil
}
