package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// TracingTenants wraps a domain.TenantRepository with OpenTelemetry tracing.
type TracingTenants struct {
	next   domain.TenantRepository
	tracer trace.Tracer
}

var _ domain.TenantRepository = (*TracingTenants)(nil)

// NewTracingTenants creates a tracing decorator around the given repository.
func NewTracingTenants(next domain.TenantRepository) *TracingTenants {
	return &TracingTenants{next: next, tracer: otel.Tracer(tracerName)}
}

func (r *TracingTenants) Create(ctx context.Context, tenant domain.Tenant) (err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.Create",
		trace.WithAttributes(
			attribute.String("tenant.id", tenant.ID),
			attribute.String("tenant.slug", tenant.Slug),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Create(ctx, tenant)
}

func (r *TracingTenants) GetByID(ctx context.Context, id string) (_ domain.Tenant, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.GetByID",
		trace.WithAttributes(attribute.String("tenant.id", id)),
	)
	defer func() { end(span, err) }()

	tenant, err := r.next.GetByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("tenant.status", string(tenant.Status)))
	}
	return tenant, err
}

func (r *TracingTenants) GetBySlug(ctx context.Context, slug string) (_ domain.Tenant, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.GetBySlug",
		trace.WithAttributes(attribute.String("tenant.slug", slug)),
	)
	defer func() { end(span, err) }()

	return r.next.GetBySlug(ctx, slug)
}

func (r *TracingTenants) List(ctx context.Context, filter domain.ListFilter) (_ []domain.Tenant, err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer func() { end(span, err) }()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	tenants, err := r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(tenants)))
	}
	return tenants, err
}

func (r *TracingTenants) Update(ctx context.Context, tenant domain.Tenant) (err error) {
	ctx, span := r.tracer.Start(ctx, "TenantRepository.Update",
		trace.WithAttributes(
			attribute.String("tenant.id", tenant.ID),
			attribute.String("tenant.status", string(tenant.Status)),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Update(ctx, tenant)
}
