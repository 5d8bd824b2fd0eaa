package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

// Credentials is the session evidence attached to an incoming call.
// Both fields may be empty.
type Credentials struct {
	Authorization string
	Session       string
}

// token picks the bearer token, falling back to the session cookie.
func (c Credentials) token() (string, bool) {
	if c.Authorization != "" {
		scheme, raw, ok := strings.Cut(strings.TrimSpace(c.Authorization), " ")
		raw = strings.TrimSpace(raw)
		return raw, ok && strings.EqualFold(scheme, "Bearer") && raw != ""
	}
	s := strings.TrimSpace(c.Session)
	return s, s != ""
}

// IdentityResolver turns credentials into a Principal. It never reads
// the store and never trusts identity fields outside the verified token.
type IdentityResolver struct {
	verifier domain.CredentialVerifier
}

// NewIdentityResolver creates a resolver backed by the given verifier.
func NewIdentityResolver(verifier domain.CredentialVerifier) *IdentityResolver {
	return &IdentityResolver{verifier: verifier}
}

// Resolve returns the authenticated principal or domain.ErrUnauthenticated.
func (r *IdentityResolver) Resolve(ctx context.Context, creds Credentials) (domain.Principal, error) {
	p, _, err := r.Inspect(ctx, creds)
	return p, err
}

// Inspect is Resolve that also returns the verified claims.
func (r *IdentityResolver) Inspect(ctx context.Context, creds Credentials) (domain.Principal, domain.Claims, error) {
	raw, ok := creds.token()
	if !ok {
		return domain.Principal{}, domain.Claims{}, domain.ErrUnauthenticated
	}

	claims, err := r.verifier.Verify(ctx, raw)
	if err != nil {
		return domain.Principal{}, domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return domain.Principal{}, domain.Claims{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	return domain.Principal{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, claims, nil
}
