package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// TenantDetail is a tenant with its members.
type TenantDetail struct {
	Tenant  domain.Tenant
	Members []domain.Member
}

// MemberInput describes a principal being assigned to a tenant.
type MemberInput struct {
	PrincipalID string
	Email       string
	DisplayName string
	Role        domain.Role
}

// TenantService orchestrates tenant administration. Every method takes the
// acting principal and authorizes it before touching tenant data.
type TenantService struct {
	access      *AccessService
	repo        domain.TenantRepository
	principals  domain.PrincipalRepository
	memberships domain.MembershipRepository
	publisher   domain.EventPublisher
	validator   domain.TransitionValidator
	logger      logging.LoggerInterface
}

// NewTenantService creates a service with the given adapters.
func NewTenantService(
	access *AccessService,
	repo domain.TenantRepository,
	principals domain.PrincipalRepository,
	memberships domain.MembershipRepository,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator,
	logger logging.LoggerInterface,
) *TenantService {
	return &TenantService{
		access:      access,
		repo:        repo,
		principals:  principals,
		memberships: memberships,
		publisher:   publisher,
		validator:   validator,
		logger:      logger,
	}
}

// Create persists a new active tenant and publishes a creation notice.
func (s *TenantService) Create(ctx context.Context, actor domain.Principal, name, slug, plan string) (domain.Tenant, error) {
	if _, err := s.access.AuthorizePlatform(ctx, actor, "tenant:create"); err != nil {
		return domain.Tenant{}, err
	}

	_, err := s.repo.GetBySlug(ctx, slug)
	if err == nil {
		return domain.Tenant{}, &domain.SlugConflictError{Slug: slug}
	}
	if !errors.Is(err, domain.ErrTenantNotFound) {
		return domain.Tenant{}, fmt.Errorf("checking slug: %w", err)
	}

	id, err := generateID()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("generating tenant id: %w", err)
	}

	tenant := domain.NewTenant(id, name, slug, plan)

	if err := s.repo.Create(ctx, tenant); err != nil {
		return domain.Tenant{}, fmt.Errorf("creating tenant: %w", err)
	}

	notice := domain.Notice{Kind: domain.NoticeTenantCreated, Tenant: tenant}
	if actor.Email != "" {
		notice.Recipients = []string{actor.Email}
	}
	if err := s.publisher.Publish(ctx, notice); err != nil {
		return domain.Tenant{}, fmt.Errorf("publishing creation notice: %w", err)
	}

	return tenant, nil
}

// List returns tenants matching the given filter across the platform.
func (s *TenantService) List(ctx context.Context, actor domain.Principal, filter domain.ListFilter) ([]domain.Tenant, error) {
	if _, err := s.access.AuthorizePlatform(ctx, actor, "tenant:list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// Detail returns a tenant with its members. It deliberately skips the
// tenant predicate and is only reachable by superAdmin; the tenant is
// reported missing only after that check.
func (s *TenantService) Detail(ctx context.Context, actor domain.Principal, id string) (TenantDetail, error) {
	if _, err := s.access.AuthorizePlatform(ctx, actor, "tenant:"+id); err != nil {
		return TenantDetail{}, err
	}

	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TenantDetail{}, err
	}

	members, err := s.memberships.ListMembers(ctx, id)
	if err != nil {
		return TenantDetail{}, fmt.Errorf("listing members: %w", err)
	}

	return TenantDetail{Tenant: tenant, Members: members}, nil
}

// Transition applies a lifecycle event to a tenant, changing its state.
func (s *TenantService) Transition(ctx context.Context, actor domain.Principal, id string, event domain.Event) (domain.Tenant, error) {
	if _, err := s.access.AuthorizePlatform(ctx, actor, "tenant:"+id); err != nil {
		return domain.Tenant{}, err
	}

	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, err
	}

	newStatus, err := s.validator.Apply(ctx, tenant.Status, event)
	if err != nil {
		return domain.Tenant{}, err
	}

	tenant.Status = newStatus
	tenant.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, tenant); err != nil {
		return domain.Tenant{}, fmt.Errorf("updating tenant: %w", err)
	}

	recipients, err := s.adminEmails(ctx, id)
	if err != nil {
		return domain.Tenant{}, err
	}

	notice := domain.Notice{Kind: domain.NoticeForEvent(event), Tenant: tenant, Recipients: recipients}
	if err := s.publisher.Publish(ctx, notice); err != nil {
		return domain.Tenant{}, fmt.Errorf("publishing event %q: %w", event, err)
	}

	return tenant, nil
}

// AddMember assigns a principal to a tenant. superAdmin may grant any role
// anywhere; an admin of an active tenant may grant cashier there. The email
// and display name only seed a principal the platform has not seen yet; an
// existing principal keeps its stored profile.
func (s *TenantService) AddMember(ctx context.Context, actor domain.Principal, tenantID string, in MemberInput) (domain.Member, error) {
	if err := validateMember(in); err != nil {
		return domain.Member{}, err
	}

	tenant, err := s.authorizeGrant(ctx, actor, tenantID, in.Role)
	if err != nil {
		return domain.Member{}, err
	}

	existing, err := s.membershipOf(ctx, tenantID, in.PrincipalID)
	if err == nil {
		return domain.Member{}, &domain.MembershipConflictError{PrincipalID: existing.PrincipalID, TenantID: tenantID}
	}
	if !errors.Is(err, domain.ErrMembershipNotFound) {
		return domain.Member{}, err
	}

	now := time.Now().UTC()
	principal := domain.Principal{
		ID:          in.PrincipalID,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		CreatedAt:   now,
	}
	if err := s.principals.Register(ctx, principal); err != nil {
		return domain.Member{}, fmt.Errorf("registering principal: %w", err)
	}
	stored, err := s.principals.GetByID(ctx, principal.ID)
	if err != nil {
		return domain.Member{}, fmt.Errorf("reloading principal: %w", err)
	}

	id, err := generateID()
	if err != nil {
		return domain.Member{}, fmt.Errorf("generating membership id: %w", err)
	}

	membership := domain.Membership{
		ID:          id,
		PrincipalID: principal.ID,
		TenantID:    tenantID,
		Role:        in.Role,
		CreatedAt:   now,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return domain.Member{}, err
	}

	notice := domain.Notice{
		Kind:       domain.NoticeMemberAdded,
		Tenant:     tenant,
		Recipients: []string{stored.Email},
		Role:       in.Role,
	}
	if err := s.publisher.Publish(ctx, notice); err != nil {
		return domain.Member{}, fmt.Errorf("publishing member notice: %w", err)
	}

	return domain.Member{Principal: stored, Role: in.Role, JoinedAt: now}, nil
}

// RemoveMember revokes a principal's membership in a tenant, following the
// same grant rule as AddMember for the membership's role.
func (s *TenantService) RemoveMember(ctx context.Context, actor domain.Principal, tenantID, principalID string) error {
	target, err := s.membershipOf(ctx, tenantID, principalID)
	if err != nil && !errors.Is(err, domain.ErrMembershipNotFound) {
		return err
	}

	role := target.Role
	if role == "" {
		// Unknown memberships are checked as the most privileged grant so a
		// non-superAdmin learns nothing from the response.
		role = domain.RoleSuperAdmin
	}
	if _, err := s.authorizeGrant(ctx, actor, tenantID, role); err != nil {
		return err
	}
	if target.ID == "" {
		return domain.ErrMembershipNotFound
	}

	return s.memberships.Delete(ctx, tenantID, principalID)
}

// authorizeGrant returns the target tenant when actor may grant role in it.
func (s *TenantService) authorizeGrant(ctx context.Context, actor domain.Principal, tenantID string, role domain.Role) (domain.Tenant, error) {
	_, err := s.access.AuthorizePlatform(ctx, actor, "tenant:"+tenantID+":members")
	if err == nil {
		return s.repo.GetByID(ctx, tenantID)
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		return domain.Tenant{}, err
	}

	access, err := s.access.Authorize(ctx, actor, tenantID, domain.AnyOf(domain.RoleAdmin))
	if err != nil {
		if errors.Is(err, domain.ErrNoMembership) {
			return domain.Tenant{}, domain.ErrUnauthorized
		}
		return domain.Tenant{}, err
	}
	if !access.Context.Role.CanGrant(role) {
		s.logger.Security().AuthzFailure(actor.ID, "grant:"+string(role))
		return domain.Tenant{}, domain.ErrUnauthorized
	}
	return access.Tenant, nil
}

func (s *TenantService) membershipOf(ctx context.Context, tenantID, principalID string) (domain.Membership, error) {
	all, err := s.memberships.ListByPrincipal(ctx, principalID)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("loading memberships: %w", err)
	}
	for _, m := range all {
		if m.TenantID == tenantID {
			return m, nil
		}
	}
	return domain.Membership{}, domain.ErrMembershipNotFound
}

func (s *TenantService) adminEmails(ctx context.Context, tenantID string) ([]string, error) {
	members, err := s.memberships.ListMembers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	var out []string
	for _, m := range members {
		if m.Role == domain.RoleAdmin && m.Principal.Email != "" {
			out = append(out, m.Principal.Email)
		}
	}
	return out, nil
}

func validateMember(in MemberInput) error {
	if strings.TrimSpace(in.PrincipalID) == "" {
		return &domain.ValidationError{Field: "principalId", Reason: "must not be blank"}
	}
	if !strings.Contains(in.Email, "@") {
		return &domain.ValidationError{Field: "email", Reason: "must be an email address"}
	}
	if !in.Role.Valid() {
		return &domain.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", in.Role)}
	}
	return nil
}
