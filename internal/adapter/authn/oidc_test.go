package authn_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	"github.com/neomorfeo/tenantpos/internal/adapter/authn"
)

const issuer = "https://id.example.com"

func newStaticVerifier(t *testing.T) (*authn.OIDCVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	v := oidc.NewVerifier(issuer, keySet, &oidc.Config{SkipClientIDCheck: true})
	return authn.NewOIDCVerifier(v), key
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return raw
}

func TestOIDCVerifier_Verify(t *testing.T) {
	v, key := newStaticVerifier(t)

	raw := signRS256(t, key, jwt.MapClaims{
		"iss":                issuer,
		"sub":                "idp|42",
		"email":              "ana@example.com",
		"preferred_username": "ana",
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "idp|42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "idp|42")
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "ana@example.com")
	}
	if claims.Name != "ana" {
		t.Errorf("Name = %q, want preferred_username fallback %q", claims.Name, "ana")
	}
}

func TestOIDCVerifier_Rejects(t *testing.T) {
	v, key := newStaticVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name string
		raw  string
	}{
		{"expired", signRS256(t, key, jwt.MapClaims{"iss": issuer, "sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"wrong issuer", signRS256(t, key, jwt.MapClaims{"iss": "https://evil.example.com", "sub": "u", "exp": future})},
		{"unknown key", signRS256(t, otherKey, jwt.MapClaims{"iss": issuer, "sub": "u", "exp": future})},
		{"garbage", "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tt.raw); !errors.Is(err, authn.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewIDTokenVerifier_WithJWKS(t *testing.T) {
	// A JWKS URL skips discovery, so no request is made until a token is verified.
	v, err := authn.NewIDTokenVerifier(context.Background(), issuer, "https://id.example.com/jwks")
	if err != nil {
		t.Fatalf("NewIDTokenVerifier: %v", err)
	}
	if v == nil {
		t.Fatal("expected verifier")
	}
}
