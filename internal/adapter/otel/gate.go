package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/domain"
)

// GateMetrics counts status gate decisions by role and outcome.
type GateMetrics struct {
	decisions metric.Int64Counter
}

var _ app.GateObserver = (*GateMetrics)(nil)

// NewGateMetrics registers the decision counter on the global meter provider.
func NewGateMetrics() (*GateMetrics, error) {
	counter, err := otel.Meter(tracerName).Int64Counter("tenantpos.gate.decisions",
		metric.WithDescription("Status gate decisions by role and outcome."),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate counter: %w", err)
	}
	return &GateMetrics{decisions: counter}, nil
}

func (g *GateMetrics) Observe(ctx context.Context, tc domain.TenantContext, d domain.Decision) {
	outcome := "proceed"
	if d.Blocked {
		outcome = "blocked"
	}
	g.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", string(tc.Role)),
		attribute.String("outcome", outcome),
		attribute.String("tenant.status", string(d.Tenant.Status)),
	))
}
