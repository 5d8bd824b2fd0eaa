package http

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// Auth carries the credentials and tenant hint every operation accepts.
type Auth struct {
	Authorization string `header:"Authorization" required:"false" doc:"Bearer session token"`
	Session       string `cookie:"session" required:"false" doc:"Session token cookie"`
	TenantID      string `header:"X-Tenant-ID" required:"false" doc:"Tenant to act in when the caller has several memberships"`
}

func (a Auth) credentials() app.Credentials {
	return app.Credentials{Authorization: a.Authorization, Session: a.Session}
}

// Handler serves the API operations on top of the app services.
type Handler struct {
	access  *app.AccessService
	tenants *app.TenantService
	catalog *app.CatalogService
	logger  logging.LoggerInterface
}

func NewHandler(access *app.AccessService, tenants *app.TenantService, catalog *app.CatalogService, logger logging.LoggerInterface) *Handler {
	return &Handler{access: access, tenants: tenants, catalog: catalog, logger: logger}
}

// Register adds every API route to the Huma API. The session diagnostic
// route is only added when debug is true.
func Register(api huma.API, h *Handler, debug bool) {
	h.registerTenants(api)
	h.registerMembers(api)
	h.registerCatalog(api)
	h.registerSession(api)
	if debug {
		h.registerDebug(api)
	}
}

func (h *Handler) principal(ctx context.Context, auth Auth) (domain.Principal, error) {
	return h.access.Authenticate(ctx, auth.credentials())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// toHumaError translates domain errors to Huma HTTP errors. Internal
// failures are logged and never exposed.
func (h *Handler) toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrUnauthorized):
		return huma.Error401Unauthorized("unauthorized")
	case errors.Is(err, domain.ErrNoMembership):
		return huma.Error404NotFound("no tenant associated")
	case errors.Is(err, domain.ErrTenantInactive):
		return huma.Error403Forbidden(domain.ReasonTenantInactive)
	case errors.Is(err, domain.ErrTenantNotFound):
		return huma.Error404NotFound("tenant not found")
	case errors.Is(err, domain.ErrMembershipNotFound):
		return huma.Error404NotFound("membership not found")
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error400BadRequest(valErr.Error())
	}

	var slugErr *domain.SlugConflictError
	if errors.As(err, &slugErr) {
		return huma.Error409Conflict(slugErr.Error())
	}

	var barcodeErr *domain.BarcodeConflictError
	if errors.As(err, &barcodeErr) {
		return huma.Error409Conflict(barcodeErr.Error())
	}

	var memberErr *domain.MembershipConflictError
	if errors.As(err, &memberErr) {
		return huma.Error409Conflict(memberErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	h.logger.Errorf("request failed: %v", err)
	return huma.Error500InternalServerError("internal server error")
}
