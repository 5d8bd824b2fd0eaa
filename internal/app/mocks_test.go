package app_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

// --- Mocks ---

type mockRepo struct {
	tenants map[string]domain.Tenant
	slugs   map[string]domain.Tenant
	reads   int
	slugErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		tenants: make(map[string]domain.Tenant),
		slugs:   make(map[string]domain.Tenant),
	}
}

func (m *mockRepo) Create(_ context.Context, t domain.Tenant) error {
	m.tenants[t.ID] = t
	m.slugs[t.Slug] = t
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (domain.Tenant, error) {
	m.reads++
	t, ok := m.tenants[id]
	if !ok {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, nil
}

func (m *mockRepo) GetBySlug(_ context.Context, slug string) (domain.Tenant, error) {
	m.reads++
	if m.slugErr != nil {
		return domain.Tenant{}, m.slugErr
	}
	t, ok := m.slugs[slug]
	if !ok {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, nil
}

func (m *mockRepo) List(_ context.Context, _ domain.ListFilter) ([]domain.Tenant, error) {
	m.reads++
	out := make([]domain.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, t domain.Tenant) error {
	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrTenantNotFound
	}
	m.tenants[t.ID] = t
	m.slugs[t.Slug] = t
	return nil
}

func (m *mockRepo) setStatus(id string, s domain.Status) {
	t := m.tenants[id]
	t.Status = s
	m.tenants[id] = t
	m.slugs[t.Slug] = t
}

type mockPrincipals struct {
	principals map[string]domain.Principal
}

func newMockPrincipals() *mockPrincipals {
	return &mockPrincipals{principals: make(map[string]domain.Principal)}
}

func (m *mockPrincipals) Register(_ context.Context, p domain.Principal) error {
	if _, ok := m.principals[p.ID]; ok {
		return nil
	}
	m.principals[p.ID] = p
	return nil
}

func (m *mockPrincipals) GetByID(_ context.Context, id string) (domain.Principal, error) {
	p, ok := m.principals[id]
	if !ok {
		return domain.Principal{}, domain.ErrPrincipalNotFound
	}
	return p, nil
}

// mockMemberships keeps rows in insertion order.
type mockMemberships struct {
	rows       []domain.Membership
	principals *mockPrincipals
	reads      int
}

func newMockMemberships(principals *mockPrincipals) *mockMemberships {
	return &mockMemberships{principals: principals}
}

func (m *mockMemberships) Create(_ context.Context, ms domain.Membership) error {
	for _, r := range m.rows {
		if r.PrincipalID == ms.PrincipalID && r.TenantID == ms.TenantID {
			return &domain.MembershipConflictError{PrincipalID: ms.PrincipalID, TenantID: ms.TenantID}
		}
	}
	m.rows = append(m.rows, ms)
	return nil
}

func (m *mockMemberships) Delete(_ context.Context, tenantID, principalID string) error {
	for i, r := range m.rows {
		if r.TenantID == tenantID && r.PrincipalID == principalID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrMembershipNotFound
}

func (m *mockMemberships) ListByPrincipal(_ context.Context, principalID string) ([]domain.Membership, error) {
	m.reads++
	var out []domain.Membership
	for _, r := range m.rows {
		if r.PrincipalID == principalID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockMemberships) ListMembers(_ context.Context, tenantID string) ([]domain.Member, error) {
	m.reads++
	var out []domain.Member
	for _, r := range m.rows {
		if r.TenantID != tenantID {
			continue
		}
		p := m.principals.principals[r.PrincipalID]
		out = append(out, domain.Member{Principal: p, Role: r.Role, JoinedAt: r.CreatedAt})
	}
	return out, nil
}

type mockProducts struct {
	products []domain.Product
	calls    int
}

func (m *mockProducts) Create(_ context.Context, scope domain.Scope, p domain.Product) error {
	m.calls++
	if scope.IsZero() {
		return domain.ErrUnscoped
	}
	p.TenantID = scope.TenantID()
	m.products = append(m.products, p)
	return nil
}

func (m *mockProducts) FindInStockByBarcode(_ context.Context, scope domain.Scope, barcode string) (*domain.Product, error) {
	m.calls++
	if scope.IsZero() {
		return nil, domain.ErrUnscoped
	}
	for _, p := range m.products {
		if p.TenantID == scope.TenantID() && p.Barcode == barcode && p.InStock() {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *mockProducts) List(_ context.Context, scope domain.Scope, _ domain.ProductFilter) ([]domain.Product, error) {
	m.calls++
	if scope.IsZero() {
		return nil, domain.ErrUnscoped
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.TenantID == scope.TenantID() {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubVerifier accepts tokens of the form "token-<subject>".
type stubVerifier struct {
	claims map[string]domain.Claims
}

func (v *stubVerifier) Verify(_ context.Context, raw string) (domain.Claims, error) {
	c, ok := v.claims[raw]
	if !ok {
		return domain.Claims{}, errors.New("signature invalid")
	}
	return c, nil
}

type mockPublisher struct {
	notices []domain.Notice
}

func (m *mockPublisher) Publish(_ context.Context, n domain.Notice) error {
	m.notices = append(m.notices, n)
	return nil
}

// stubValidator walks domain.Transitions directly.
type stubValidator struct{}

func (stubValidator) Apply(_ context.Context, current domain.Status, event domain.Event) (domain.Status, error) {
	for _, t := range domain.Transitions {
		if t.Event == event && t.Src == current {
			return t.Dst, nil
		}
	}
	return "", &domain.TransitionError{Event: event, Current: current}
}

type recordingObserver struct {
	decisions []domain.Decision
}

func (o *recordingObserver) Observe(_ context.Context, _ domain.TenantContext, d domain.Decision) {
	o.decisions = append(o.decisions, d)
}

// --- Fixture ---

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	tenants     *mockRepo
	principals  *mockPrincipals
	memberships *mockMemberships
	products    *mockProducts
	verifier    *stubVerifier
	publisher   *mockPublisher
	observer    *recordingObserver

	access  *app.AccessService
	tenant  *app.TenantService
	catalog *app.CatalogService
}

func newFixture() *fixture {
	f := &fixture{
		tenants:    newMockRepo(),
		principals: newMockPrincipals(),
		products:   &mockProducts{},
		verifier:   &stubVerifier{claims: make(map[string]domain.Claims)},
		publisher:  &mockPublisher{},
		observer:   &recordingObserver{},
	}
	f.memberships = newMockMemberships(f.principals)

	logger := logging.NewNoopLogger()
	f.access = app.NewAccessService(
		app.NewIdentityResolver(f.verifier),
		app.NewMembershipResolver(f.memberships),
		app.NewStatusGate(f.tenants, f.observer),
		logger,
	)
	f.tenant = app.NewTenantService(f.access, f.tenants, f.principals, f.memberships, f.publisher, stubValidator{}, logger)
	f.catalog = app.NewCatalogService(f.access, f.products, logger)
	return f
}

func (f *fixture) addTenant(id string, status domain.Status) domain.Tenant {
	t := domain.NewTenant(id, "Tenant "+id, id, "free")
	t.Status = status
	f.tenants.tenants[id] = t
	f.tenants.slugs[t.Slug] = t
	return t
}

// addPrincipal registers a principal and a verifier token "token-<id>".
func (f *fixture) addPrincipal(id string) domain.Principal {
	p := domain.Principal{ID: id, Email: id + "@example.com", DisplayName: "User " + id, CreatedAt: epoch}
	f.principals.principals[id] = p
	f.verifier.claims["token-"+id] = domain.Claims{
		Subject: id,
		Email:   p.Email,
		Name:    p.DisplayName,
		Raw:     map[string]any{"sub": id, "email": p.Email},
	}
	return p
}

// addMembership appends a membership created offset minutes after epoch.
func (f *fixture) addMembership(principalID, tenantID string, role domain.Role, offset int) {
	f.memberships.rows = append(f.memberships.rows, domain.Membership{
		ID:          principalID + "/" + tenantID,
		PrincipalID: principalID,
		TenantID:    tenantID,
		Role:        role,
		CreatedAt:   epoch.Add(time.Duration(offset) * time.Minute),
	})
}

func (f *fixture) addProduct(tenantID, barcode, name string, stock int) {
	f.products.products = append(f.products.products, domain.Product{
		ID:       tenantID + "/" + barcode,
		TenantID: tenantID,
		Barcode:  barcode,
		Name:     name,
		Stock:    stock,
	})
}

func (f *fixture) storeAccesses() int {
	return f.tenants.reads + f.memberships.reads + f.products.calls
}

func sortedEmails(members []domain.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Principal.Email)
	}
	sort.Strings(out)
	return out
}
