package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// MembershipResolver selects the tenant context a request runs in.
type MembershipResolver struct {
	memberships domain.MembershipRepository
}

// NewMembershipResolver creates a resolver over the given repository.
func NewMembershipResolver(memberships domain.MembershipRepository) *MembershipResolver {
	return &MembershipResolver{memberships: memberships}
}

// Resolve picks the membership for hint when one is given and fails with
// domain.ErrNoMembership if the principal has none there. Without a hint
// it picks the earliest-created membership; the repository order breaks
// ties between equal timestamps.
func (r *MembershipResolver) Resolve(ctx context.Context, p domain.Principal, hint string) (domain.TenantContext, error) {
	all, err := r.list(ctx, p)
	if err != nil {
		return domain.TenantContext{}, err
	}
	if len(all) == 0 {
		return domain.TenantContext{}, domain.ErrNoMembership
	}

	if hint == "" {
		return toContext(all[0]), nil
	}
	for _, m := range all {
		if m.TenantID == hint {
			return toContext(m), nil
		}
	}
	return domain.TenantContext{}, domain.ErrNoMembership
}

// SuperAdmin returns the principal's superAdmin membership. The role is
// held on a membership row but grants platform administration across
// every tenant.
func (r *MembershipResolver) SuperAdmin(ctx context.Context, p domain.Principal) (domain.TenantContext, error) {
	all, err := r.list(ctx, p)
	if err != nil {
		return domain.TenantContext{}, err
	}
	for _, m := range all {
		if m.Role == domain.RoleSuperAdmin {
			return toContext(m), nil
		}
	}
	return domain.TenantContext{}, domain.ErrUnauthorized
}

func (r *MembershipResolver) list(ctx context.Context, p domain.Principal) ([]domain.Membership, error) {
	all, err := r.memberships.ListByPrincipal(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("loading memberships: %w", err)
	}
	slices.SortStableFunc(all, func(a, b domain.Membership) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return all, nil
}

func toContext(m domain.Membership) domain.TenantContext {
	return domain.TenantContext{
		PrincipalID: m.PrincipalID,
		TenantID:    m.TenantID,
		Role:        m.Role,
	}
}
