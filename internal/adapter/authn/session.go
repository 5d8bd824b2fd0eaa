// Package authn verifies caller credentials. Session tokens are HS256
// JWTs minted by this service; OIDC tokens come from an external issuer.
package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrShortSecret  = errors.New("session secret must be at least 32 bytes")
)

const minSecretLen = 32

// Sessions mints and verifies session tokens signed with a shared secret.
type Sessions struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ domain.CredentialVerifier = (*Sessions)(nil)

func NewSessions(secret, issuer string) (*Sessions, error) {
	if len(secret) < minSecretLen {
		return nil, ErrShortSecret
	}
	return &Sessions{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Sign issues a token for the principal valid for ttl.
func (s *Sessions) Sign(p domain.Principal, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": p.ID,
		"iss": s.issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if p.Email != "" {
		claims["email"] = p.Email
	}
	if p.DisplayName != "" {
		claims["name"] = p.DisplayName
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// Verify checks signature, issuer and expiry, and returns the token claims.
func (s *Sessions) Verify(_ context.Context, raw string) (domain.Claims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Claims{}, ErrInvalidToken
	}

	return claimsFromMap(mc), nil
}

func claimsFromMap(m map[string]any) domain.Claims {
	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}
	return domain.Claims{
		Subject: str("sub"),
		Email:   str("email"),
		Name:    str("name"),
		Raw:     m,
	}
}
