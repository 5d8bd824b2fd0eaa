package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// TracingProducts wraps a domain.ProductRepository with tracing. Every span
// carries the tenant the scope is bound to.
type TracingProducts struct {
	next   domain.ProductRepository
	tracer trace.Tracer
}

var _ domain.ProductRepository = (*TracingProducts)(nil)

func NewTracingProducts(next domain.ProductRepository) *TracingProducts {
	return &TracingProducts{next: next, tracer: otel.Tracer(tracerName)}
}

func (r *TracingProducts) Create(ctx context.Context, scope domain.Scope, p domain.Product) (err error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create",
		trace.WithAttributes(
			attribute.String("tenant.id", scope.TenantID()),
			attribute.String("product.barcode", p.Barcode),
		),
	)
	defer func() { end(span, err) }()

	return r.next.Create(ctx, scope, p)
}

func (r *TracingProducts) FindInStockByBarcode(ctx context.Context, scope domain.Scope, barcode string) (_ *domain.Product, err error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindInStockByBarcode",
		trace.WithAttributes(
			attribute.String("tenant.id", scope.TenantID()),
			attribute.String("product.barcode", barcode),
		),
	)
	defer func() { end(span, err) }()

	p, err := r.next.FindInStockByBarcode(ctx, scope, barcode)
	if err == nil {
		span.SetAttributes(attribute.Bool("result.found", p != nil))
	}
	return p, err
}

func (r *TracingProducts) List(ctx context.Context, scope domain.Scope, filter domain.ProductFilter) (_ []domain.Product, err error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List",
		trace.WithAttributes(
			attribute.String("tenant.id", scope.TenantID()),
			attribute.Bool("filter.in_stock", filter.InStockOnly),
			attribute.Int("filter.limit", filter.Limit),
		),
	)
	defer func() { end(span, err) }()

	products, err := r.next.List(ctx, scope, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(products)))
	}
	return products, err
}
