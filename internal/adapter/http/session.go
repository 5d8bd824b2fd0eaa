package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// TenantContextResponse is the caller's resolved tenant and whether the
// status gate lets it through.
type TenantContextResponse struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Access     string `json:"access" enum:"proceed,blocked"`
	Reason     string `json:"reason,omitempty"`
}

func toTenantContextResponse(tc domain.TenantContext, d domain.Decision) TenantContextResponse {
	resp := TenantContextResponse{
		TenantID:   tc.TenantID,
		TenantName: d.Tenant.Name,
		Role:       string(tc.Role),
		Status:     string(d.Tenant.Status),
		Access:     "proceed",
	}
	if d.Blocked {
		resp.Access = "blocked"
		resp.Reason = d.Reason
	}
	return resp
}

type SessionInput struct {
	Auth
}

type TenantContextOutput struct {
	Body TenantContextResponse
}

type DebugSessionOutput struct {
	Body struct {
		Principal PrincipalResponse      `json:"principal"`
		Claims    map[string]any         `json:"claims"`
		Tenant    *TenantContextResponse `json:"tenant,omitempty"`
	}
}

func (h *Handler) registerSession(api huma.API) {
	// Not gated: it is where blocked callers learn why.
	huma.Register(api, huma.Operation{
		OperationID: "cashier-tenant-context",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/tenant",
		Summary:     "Resolve the caller's tenant context",
		Tags:        []string{"Session"},
	}, func(ctx context.Context, input *SessionInput) (*TenantContextOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		tc, d, err := h.access.Context(ctx, actor, input.TenantID)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		return &TenantContextOutput{Body: toTenantContextResponse(tc, d)}, nil
	})
}

func (h *Handler) registerDebug(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "tenant-status-debug",
		Method:      http.MethodGet,
		Path:        "/api/v1/debug/session",
		Summary:     "Show the verified session and tenant status",
		Tags:        []string{"Debug"},
		Hidden:      true,
	}, func(ctx context.Context, input *SessionInput) (*DebugSessionOutput, error) {
		p, claims, err := h.access.Inspect(ctx, input.credentials())
		if err != nil {
			return nil, h.toHumaError(err)
		}

		out := &DebugSessionOutput{}
		out.Body.Principal = PrincipalResponse{ID: p.ID, Name: p.DisplayName, Email: p.Email}
		out.Body.Claims = claims.Raw

		tc, d, err := h.access.Context(ctx, p, input.TenantID)
		switch {
		case err == nil:
			resp := toTenantContextResponse(tc, d)
			out.Body.Tenant = &resp
		case !errors.Is(err, domain.ErrNoMembership):
			return nil, h.toHumaError(err)
		}
		return out, nil
	})
}
