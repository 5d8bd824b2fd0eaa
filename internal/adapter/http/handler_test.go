package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/neomorfeo/tenantpos/internal/adapter/authn"
	"github.com/neomorfeo/tenantpos/internal/adapter/fsm"
	adapter "github.com/neomorfeo/tenantpos/internal/adapter/http"
	"github.com/neomorfeo/tenantpos/internal/adapter/sqlite"
	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

type recordingPublisher struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (p *recordingPublisher) Publish(_ context.Context, n domain.Notice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, n)
	return nil
}

func (p *recordingPublisher) kinds() []domain.NoticeKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.NoticeKind, len(p.notices))
	for i, n := range p.notices {
		out[i] = n.Kind
	}
	return out
}

// env is a full-stack server over an in-memory store with helpers to seed it.
type env struct {
	srv       *httptest.Server
	store     *sqlite.Store
	sessions  *authn.Sessions
	publisher *recordingPublisher
	clock     time.Time
}

func newEnv(t *testing.T, debug bool) *env {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sessions, err := authn.NewSessions("0123456789abcdef0123456789abcdef", "tenantpos")
	if err != nil {
		t.Fatalf("creating sessions: %v", err)
	}

	logger := logging.NewNoopLogger()
	publisher := &recordingPublisher{}

	access := app.NewAccessService(
		app.NewIdentityResolver(sessions),
		app.NewMembershipResolver(store.Memberships),
		app.NewStatusGate(store.Tenants),
		logger,
	)
	tenants := app.NewTenantService(access, store.Tenants, store.Principals, store.Memberships, publisher, fsm.New(), logger)
	catalog := app.NewCatalogService(access, store.Products, logger)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("tenantpos", "test"))
	adapter.Register(api, adapter.NewHandler(access, tenants, catalog, logger), debug)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{
		srv:       srv,
		store:     store,
		sessions:  sessions,
		publisher: publisher,
		clock:     time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (e *env) tick() time.Time {
	e.clock = e.clock.Add(time.Minute)
	return e.clock
}

func (e *env) tenant(t *testing.T, id, name string, status domain.Status) {
	t.Helper()
	tenant := domain.NewTenant(id, name, id, "free")
	tenant.Status = status
	if err := e.store.Tenants.Create(context.Background(), tenant); err != nil {
		t.Fatalf("seeding tenant %s: %v", id, err)
	}
}

func (e *env) member(t *testing.T, principalID, tenantID string, role domain.Role) {
	t.Helper()
	ctx := context.Background()
	at := e.tick()
	p := domain.Principal{ID: principalID, Email: principalID + "@example.com", DisplayName: principalID, CreatedAt: at}
	if err := e.store.Principals.Register(ctx, p); err != nil {
		t.Fatalf("seeding principal %s: %v", principalID, err)
	}
	m := domain.Membership{ID: principalID + "@" + tenantID, PrincipalID: principalID, TenantID: tenantID, Role: role, CreatedAt: at}
	if err := e.store.Memberships.Create(ctx, m); err != nil {
		t.Fatalf("seeding membership %s: %v", m.ID, err)
	}
}

func (e *env) product(t *testing.T, tenantID, barcode, name string, stock int) {
	t.Helper()
	scope := domain.TenantContext{TenantID: tenantID, Role: domain.RoleAdmin}.Scope()
	p := domain.Product{ID: tenantID + "/" + barcode, Barcode: barcode, Name: name, PriceCents: 250, Stock: stock, CreatedAt: e.tick()}
	if err := e.store.Products.Create(context.Background(), scope, p); err != nil {
		t.Fatalf("seeding product: %v", err)
	}
}

func (e *env) token(t *testing.T, principalID string) string {
	t.Helper()
	raw, err := e.sessions.Sign(domain.Principal{ID: principalID, Email: principalID + "@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

// seed builds the shared scenario: a platform tenant administered by "root",
// an active shop and a suspended one.
func seed(t *testing.T, debug bool) *env {
	t.Helper()
	e := newEnv(t, debug)
	e.tenant(t, "platform", "Platform", domain.StatusActive)
	e.tenant(t, "shop", "Corner Shop", domain.StatusActive)
	e.tenant(t, "closed", "Closed Kiosk", domain.StatusInactive)

	e.member(t, "root", "platform", domain.RoleSuperAdmin)
	e.member(t, "owner", "shop", domain.RoleAdmin)
	e.member(t, "ana", "shop", domain.RoleCashier)
	e.member(t, "bob", "closed", domain.RoleCashier)
	e.member(t, "nomad", "shop", domain.RoleCashier)
	e.member(t, "nomad", "closed", domain.RoleCashier)

	e.product(t, "shop", "7501", "Coffee", 12)
	e.product(t, "shop", "7502", "Tea", 0)
	e.product(t, "closed", "7501", "Closed Coffee", 3)
	return e
}

type request struct {
	method string
	path   string
	body   string
	token  string
	cookie string
	header map[string]string
}

func (e *env) do(t *testing.T, r request) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if r.body != "" {
		reader = strings.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(context.Background(), r.method, e.srv.URL+r.path, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: r.cookie})
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %T: %v (body %s)", v, err, body)
	}
	return v
}

func detail(t *testing.T, body []byte) string {
	t.Helper()
	return decode[huma.ErrorModel](t, body).Detail
}

func expectStatus(t *testing.T, got, want int, body []byte) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d (body %s)", got, want, body)
	}
}
