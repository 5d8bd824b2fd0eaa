package domain

import "context"

// TenantRepository defines the persistence contract for tenants.
// Its reads are unscoped and only reachable once superAdmin has been
// confirmed, except GetByID which the status gate uses on the caller's
// own tenant.
type TenantRepository interface {
	Create(ctx context.Context, tenant Tenant) error
	GetByID(ctx context.Context, id string) (Tenant, error)
	GetBySlug(ctx context.Context, slug string) (Tenant, error)
	List(ctx context.Context, filter ListFilter) ([]Tenant, error)
	Update(ctx context.Context, tenant Tenant) error
}

// ListFilter holds optional criteria for listing tenants.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// PrincipalRepository stores the projection of identities known to the platform.
// Register never overwrites an existing principal.
type PrincipalRepository interface {
	Register(ctx context.Context, principal Principal) error
	GetByID(ctx context.Context, id string) (Principal, error)
}

// MembershipRepository defines the persistence contract for tenant memberships.
type MembershipRepository interface {
	Create(ctx context.Context, membership Membership) error
	Delete(ctx context.Context, tenantID, principalID string) error
	// ListByPrincipal returns memberships oldest first, ties broken by insertion order.
	ListByPrincipal(ctx context.Context, principalID string) ([]Membership, error)
	ListMembers(ctx context.Context, tenantID string) ([]Member, error)
}

// ProductRepository is the tenant-scoped catalog store. Every method
// conjoins the scope's tenant id with its own predicates.
type ProductRepository interface {
	Create(ctx context.Context, scope Scope, product Product) error
	// FindInStockByBarcode returns nil without error when nothing matches.
	FindInStockByBarcode(ctx context.Context, scope Scope, barcode string) (*Product, error)
	List(ctx context.Context, scope Scope, filter ProductFilter) ([]Product, error)
}

// Claims is the verified content of a credential.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Raw     map[string]any
}

// CredentialVerifier checks an opaque credential and returns its claims.
type CredentialVerifier interface {
	Verify(ctx context.Context, raw string) (Claims, error)
}

// TransitionValidator checks lifecycle events against the state machine.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}

// EventPublisher defines the contract for emitting notices after an
// authorized operation has committed.
type EventPublisher interface {
	Publish(ctx context.Context, notice Notice) error
}

// Notifier delivers notices to their recipients.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}
