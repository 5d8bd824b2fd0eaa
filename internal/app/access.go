package app

import (
	"context"
	"errors"

	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// Access is the outcome of a request that passed every check.
type Access struct {
	Context domain.TenantContext
	Tenant  domain.Tenant
}

// AccessService runs the per-request authorization pipeline:
// identity, membership, guard, then status gate.
type AccessService struct {
	identity    *IdentityResolver
	memberships *MembershipResolver
	guard       AccessGuard
	gate        *StatusGate
	logger      logging.LoggerInterface
}

// NewAccessService wires the pipeline stages together.
func NewAccessService(identity *IdentityResolver, memberships *MembershipResolver, gate *StatusGate, logger logging.LoggerInterface) *AccessService {
	return &AccessService{
		identity:    identity,
		memberships: memberships,
		gate:        gate,
		logger:      logger,
	}
}

// Authenticate resolves the caller or returns domain.ErrUnauthenticated.
func (s *AccessService) Authenticate(ctx context.Context, creds Credentials) (domain.Principal, error) {
	p, err := s.identity.Resolve(ctx, creds)
	if err != nil {
		s.logger.Security().AuthnFailure(err.Error())
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// Inspect authenticates the caller and returns the raw claims as well.
func (s *AccessService) Inspect(ctx context.Context, creds Credentials) (domain.Principal, domain.Claims, error) {
	p, claims, err := s.identity.Inspect(ctx, creds)
	if err != nil {
		s.logger.Security().AuthnFailure(err.Error())
		return domain.Principal{}, domain.Claims{}, domain.ErrUnauthenticated
	}
	return p, claims, nil
}

// Authorize resolves the caller's membership for hint, checks req and
// then the tenant status. Either check failing stops the pipeline.
func (s *AccessService) Authorize(ctx context.Context, p domain.Principal, hint string, req domain.Requirement) (Access, error) {
	tc, err := s.memberships.Resolve(ctx, p, hint)
	if err != nil {
		if errors.Is(err, domain.ErrNoMembership) {
			s.logger.Security().AuthzFailure(p.ID, "tenant:"+hint)
		}
		return Access{}, err
	}

	target := hint
	if target == "" {
		target = tc.TenantID
	}
	if err := s.guard.Authorize(tc, target, req); err != nil {
		s.logger.Security().AuthzFailure(p.ID, "tenant:"+target+" requires "+req.String())
		return Access{}, err
	}

	d, err := s.gate.Check(ctx, tc)
	if err != nil {
		return Access{}, err
	}
	if !d.Proceed() {
		s.logger.Security().TenantBlocked(p.ID, tc.TenantID)
		return Access{}, domain.ErrTenantInactive
	}

	return Access{Context: tc, Tenant: d.Tenant}, nil
}

// AuthorizePlatform confirms the caller is a superAdmin. Callers that are
// not get domain.ErrUnauthorized, whatever else they hold.
func (s *AccessService) AuthorizePlatform(ctx context.Context, p domain.Principal, resource string) (domain.TenantContext, error) {
	tc, err := s.memberships.SuperAdmin(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.logger.Security().AuthzFailure(p.ID, resource)
		}
		return domain.TenantContext{}, err
	}
	// Platform operations are not bound to a tenant.
	if err := s.guard.Authorize(tc, "", domain.SuperAdminOnly()); err != nil {
		s.logger.Security().AuthzFailure(p.ID, resource)
		return domain.TenantContext{}, err
	}
	return tc, nil
}

// Context resolves the caller's tenant context and gate decision without
// enforcing it. It backs the inactive notice surface.
func (s *AccessService) Context(ctx context.Context, p domain.Principal, hint string) (domain.TenantContext, domain.Decision, error) {
	tc, err := s.memberships.Resolve(ctx, p, hint)
	if err != nil {
		return domain.TenantContext{}, domain.Decision{}, err
	}
	d, err := s.gate.Check(ctx, tc)
	if err != nil {
		return domain.TenantContext{}, domain.Decision{}, err
	}
	return tc, d, nil
}
