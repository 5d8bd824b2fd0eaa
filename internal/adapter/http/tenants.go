package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/domain"
)

// TenantResponse is the API representation of a tenant.
type TenantResponse struct {
	ID        string `json:"id" doc:"Unique identifier"`
	Name      string `json:"name" doc:"Display name"`
	Slug      string `json:"slug" doc:"URL-friendly identifier"`
	Status    string `json:"status" doc:"Lifecycle state"`
	Plan      string `json:"plan" doc:"Subscription plan"`
	CreatedAt string `json:"createdAt" doc:"Creation timestamp (RFC 3339)"`
	UpdatedAt string `json:"updatedAt" doc:"Last update timestamp (RFC 3339)"`
}

func toTenantResponse(t domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Status:    string(t.Status),
		Plan:      t.Plan,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
}

// PrincipalResponse is the minimal projection of a principal.
type PrincipalResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// MemberResponse is a tenant membership with its principal.
type MemberResponse struct {
	Principal PrincipalResponse `json:"principal"`
	Role      string            `json:"role"`
	JoinedAt  string            `json:"joinedAt"`
}

func toMemberResponse(m domain.Member) MemberResponse {
	return MemberResponse{
		Principal: PrincipalResponse{
			ID:        m.Principal.ID,
			Name:      m.Principal.DisplayName,
			Email:     m.Principal.Email,
			CreatedAt: formatTime(m.Principal.CreatedAt),
		},
		Role:     string(m.Role),
		JoinedAt: formatTime(m.JoinedAt),
	}
}

// TenantDetailResponse is a tenant with its memberships.
type TenantDetailResponse struct {
	TenantResponse
	Members []MemberResponse `json:"members"`
}

type CreateTenantInput struct {
	Auth
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Slug string `json:"slug" minLength:"1" maxLength:"100" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-friendly identifier (lowercase, hyphens)"`
		Plan string `json:"plan,omitempty" default:"free" doc:"Subscription plan"`
	}
}

type TenantOutput struct {
	Body TenantResponse
}

type GetTenantInput struct {
	Auth
	ID string `path:"id" doc:"Tenant ID"`
}

type GetTenantOutput struct {
	Body TenantDetailResponse
}

type ListTenantsInput struct {
	Auth
	Status string `query:"status" required:"false" enum:"active,inactive" doc:"Filter by status"`
	Limit  int    `query:"limit" required:"false" default:"50" minimum:"1" maximum:"500" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type ListTenantsOutput struct {
	Body []TenantResponse
}

type TransitionInput struct {
	Auth
	ID   string `path:"id" doc:"Tenant ID"`
	Body struct {
		Event string `json:"event" enum:"activate,deactivate" doc:"Lifecycle event to trigger"`
	}
}

func (h *Handler) registerTenants(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenants",
		Summary:     "Create a new tenant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CreateTenantInput) (*TenantOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		tenant, err := h.tenants.Create(ctx, actor, input.Body.Name, input.Body.Slug, input.Body.Plan)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		return &TenantOutput{Body: toTenantResponse(tenant)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Get a tenant with its members",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		detail, err := h.tenants.Detail(ctx, actor, input.ID)
		if err != nil {
			return nil, h.toHumaError(err)
		}

		members := make([]MemberResponse, len(detail.Members))
		for i, m := range detail.Members {
			members[i] = toMemberResponse(m)
		}
		return &GetTenantOutput{Body: TenantDetailResponse{
			TenantResponse: toTenantResponse(detail.Tenant),
			Members:        members,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants",
		Summary:     "List tenants",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}

		filter := domain.ListFilter{Limit: input.Limit, Offset: input.Offset}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		tenants, err := h.tenants.List(ctx, actor, filter)
		if err != nil {
			return nil, h.toHumaError(err)
		}

		resp := make([]TenantResponse, len(tenants))
		for i, t := range tenants {
			resp[i] = toTenantResponse(t)
		}
		return &ListTenantsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-tenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenants/{id}/events",
		Summary:     "Activate or deactivate a tenant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *TransitionInput) (*TenantOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		tenant, err := h.tenants.Transition(ctx, actor, input.ID, domain.Event(input.Body.Event))
		if err != nil {
			return nil, h.toHumaError(err)
		}
		return &TenantOutput{Body: toTenantResponse(tenant)}, nil
	})
}

type AddMemberInput struct {
	Auth
	ID   string `path:"id" doc:"Tenant ID"`
	Body struct {
		PrincipalID string `json:"principalId" minLength:"1" doc:"Identity subject of the new member"`
		Email       string `json:"email" format:"email" doc:"Contact email"`
		DisplayName string `json:"displayName,omitempty" doc:"Display name"`
		Role        string `json:"role" enum:"superAdmin,admin,cashier" doc:"Role to grant"`
	}
}

type MemberOutput struct {
	Body MemberResponse
}

type RemoveMemberInput struct {
	Auth
	ID          string `path:"id" doc:"Tenant ID"`
	PrincipalID string `path:"principalId" doc:"Member to remove"`
}

func (h *Handler) registerMembers(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-member",
		Method:        http.MethodPost,
		Path:          "/api/v1/tenants/{id}/members",
		Summary:       "Grant a role in a tenant",
		Tags:          []string{"Members"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *AddMemberInput) (*MemberOutput, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		role, err := domain.ParseRole(input.Body.Role)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		member, err := h.tenants.AddMember(ctx, actor, input.ID, app.MemberInput{
			PrincipalID: input.Body.PrincipalID,
			Email:       input.Body.Email,
			DisplayName: input.Body.DisplayName,
			Role:        role,
		})
		if err != nil {
			return nil, h.toHumaError(err)
		}
		return &MemberOutput{Body: toMemberResponse(member)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-member",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tenants/{id}/members/{principalId}",
		Summary:       "Revoke a membership",
		Tags:          []string{"Members"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		actor, err := h.principal(ctx, input.Auth)
		if err != nil {
			return nil, h.toHumaError(err)
		}
		if err := h.tenants.RemoveMember(ctx, actor, input.ID, input.PrincipalID); err != nil {
			return nil, h.toHumaError(err)
		}
		return nil, nil
	})
}
