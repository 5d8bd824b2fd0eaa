package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// TracingMemberships wraps a domain.MembershipRepository with tracing.
type TracingMemberships struct {
	next   domain.MembershipRepository
	tracer trace.Tracer
}

var _ domain.MembershipRepository = (*TracingMemberships)(nil)

func NewTracingMemberships(next domain.MembershipRepository) *TracingMemberships {
	return &TracingMemberships{next: next, tracer: otel.Tracer(tracerName)}
}

func (r *TracingMemberships) Create(ctx context.Context, m domain.Membership) (err error) {
	ctx, span := r.tracer.Start(ctx, "MembershipRepository.Create",
		trace.WithAttributes(
			attribute.String("principal.id", m.PrincipalID),
			attribute.String("tenant.id", m.TenantID),
			attribute.String("membership.role", string(m.Role)),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Create(ctx, m)
}

func (r *TracingMemberships) Delete(ctx context.Context, tenantID, principalID string) (err error) {
	ctx, span := r.tracer.Start(ctx, "MembershipRepository.Delete",
		trace.WithAttributes(
			attribute.String("principal.id", principalID),
			attribute.String("tenant.id", tenantID),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Delete(ctx, tenantID, principalID)
}

func (r *TracingMemberships) ListByPrincipal(ctx context.Context, principalID string) (_ []domain.Membership, err error) {
	ctx, span := r.tracer.Start(ctx, "MembershipRepository.ListByPrincipal",
		trace.WithAttributes(attribute.String("principal.id", principalID)),
	)
	defer func() { end(span, err) }()

	ms, err := r.next.ListByPrincipal(ctx, principalID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(ms)))
	}
	return ms, err
}

func (r *TracingMemberships) ListMembers(ctx context.Context, tenantID string) (_ []domain.Member, err error) {
	ctx, span := r.tracer.Start(ctx, "MembershipRepository.ListMembers",
		trace.WithAttributes(attribute.String("tenant.id", tenantID)),
	)
	defer func() { end(span, err) }()

	members, err := r.next.ListMembers(ctx, tenantID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(members)))
	}
	return members, err
}

// TracingPrincipals wraps a domain.PrincipalRepository with tracing.
type TracingPrincipals struct {
	next   domain.PrincipalRepository
	tracer trace.Tracer
}

var _ domain.PrincipalRepository = (*TracingPrincipals)(nil)

func NewTracingPrincipals(next domain.PrincipalRepository) *TracingPrincipals {
	return &TracingPrincipals{next: next, tracer: otel.Tracer(tracerName)}
}

func (r *TracingPrincipals) Register(ctx context.Context, p domain.Principal) (err error) {
	ctx, span := r.tracer.Start(ctx, "PrincipalRepository.Register",
		trace.WithAttributes(attribute.String("principal.id", p.ID)),
	)
	defer func() { end(span, err) }()

	return r.next.Register(ctx, p)
}

func (r *TracingPrincipals) GetByID(ctx context.Context, id string) (_ domain.Principal, err error) {
	ctx, span := r.tracer.Start(ctx, "PrincipalRepository.GetByID",
		trace.WithAttributes(attribute.String("principal.id", id)),
	)
	defer func() { end(span, err) }()

	return r.next.GetByID(ctx, id)
}
