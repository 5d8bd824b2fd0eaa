package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/neomorfeo/tenantpos/internal/adapter/authn"
	"github.com/neomorfeo/tenantpos/internal/adapter/sqlite"
	"github.com/neomorfeo/tenantpos/internal/config"
	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testSpecs(t *testing.T, port int) *config.EnvSpec {
	t.Helper()
	return &config.EnvSpec{
		Port:               port,
		DatabasePath:       t.TempDir() + "/tenantpos.db",
		LogLevel:           "error",
		Workers:            1,
		SessionSecret:      testSecret,
		SessionIssuer:      "tenantpos",
		SessionTTL:         time.Hour,
		SMTPFrom:           "no-reply@example.com",
		OtelServiceName:    "tenantpos-test",
		OtelServiceVersion: "test",
		OtelEnvironment:    "test",
		OtelExporter:       "none",
	}
}

func seedPlatform(t *testing.T, path string) domain.Tenant {
	t.Helper()
	store, err := sqlite.New(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	tenant, err := bootstrap(context.Background(), store, bootstrapInput{
		TenantName: "Platform", TenantSlug: "platform",
		PrincipalID: "root", Email: "root@example.com",
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return tenant
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	return resp
}

// TestRun exercises run() end-to-end: OTel, River, HTTP server and
// graceful shutdown on context cancellation.
func TestRun(t *testing.T) {
	specs := testSpecs(t, 19876)
	platform := seedPlatform(t, specs.DatabasePath)

	sessions, err := authn.NewSessions(testSecret, "tenantpos")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	rootToken, err := sessions.Sign(domain.Principal{ID: "root"}, time.Hour)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, specs, logging.NewNoopLogger()) }()

	serverURL := "http://localhost:19876"
	ready := false
	for i := 0; i < 50; i++ {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/api/v1/me/tenant", nil)
		resp, reqErr := http.DefaultClient.Do(req)
		if reqErr == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ready {
		t.Fatal("server did not start within 5 seconds")
	}

	resp := get(t, serverURL+"/api/v1/tenants", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous list: status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	resp = get(t, serverURL+"/api/v1/tenants", rootToken)
	var tenants []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&tenants); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("superAdmin list: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if len(tenants) != 1 || tenants[0]["id"] != platform.ID {
		t.Errorf("tenants = %v, want only the platform tenant", tenants)
	}

	resp = get(t, serverURL+"/api/v1/debug/session", rootToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("debug route: status = %d, want %d when disabled", resp.StatusCode, http.StatusNotFound)
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run() did not exit within 10 seconds")
	}
}

func TestRun_InvalidDB(t *testing.T) {
	specs := testSpecs(t, 19877)
	specs.DatabasePath = "/nonexistent/path/db.sqlite"

	if err := run(context.Background(), specs, logging.NewNoopLogger()); err == nil {
		t.Fatal("expected error for invalid database path, got nil")
	}
}

func TestRun_ShortSecret(t *testing.T) {
	specs := testSpecs(t, 19878)
	specs.SessionSecret = "short"

	if err := run(context.Background(), specs, logging.NewNoopLogger()); err == nil {
		t.Fatal("expected error for short session secret, got nil")
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	store, err := sqlite.New(t.TempDir() + "/bootstrap.db")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	in := bootstrapInput{TenantName: "Platform", TenantSlug: "platform", PrincipalID: "root", Email: "root@example.com"}
	first, err := bootstrap(context.Background(), store, in)
	if err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	second, err := bootstrap(context.Background(), store, in)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("tenant IDs differ: %q vs %q", first.ID, second.ID)
	}

	ms, err := store.Memberships.ListByPrincipal(context.Background(), "root")
	if err != nil {
		t.Fatalf("listing memberships: %v", err)
	}
	if len(ms) != 1 || ms[0].Role != domain.RoleSuperAdmin {
		t.Errorf("memberships = %+v, want one superAdmin", ms)
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("TENANTPOS_SESSION_SECRET", testSecret)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--sub", "u-1", "--email", "ana@example.com", "--ttl", "5m"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("token command: %v", err)
	}

	sessions, err := authn.NewSessions(testSecret, "tenantpos")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	claims, err := sessions.Verify(context.Background(), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.Subject != "u-1" || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}
