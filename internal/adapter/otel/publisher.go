package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// TracingPublisher wraps a domain.EventPublisher with OpenTelemetry tracing.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
}

var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) *TracingPublisher {
	return &TracingPublisher{next: next, tracer: otel.Tracer(tracerName)}
}

func (p *TracingPublisher) Publish(ctx context.Context, notice domain.Notice) (err error) {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(
			attribute.String("notice.kind", string(notice.Kind)),
			attribute.String("tenant.id", notice.Tenant.ID),
			attribute.String("tenant.slug", notice.Tenant.Slug),
			attribute.Int("notice.recipients", len(notice.Recipients)),
		),
	)
	defer func() { end(span, err) }()

	return p.next.Publish(ctx, notice)
}
