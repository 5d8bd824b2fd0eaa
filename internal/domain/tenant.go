package domain

import "time"

// Status represents the lifecycle state of a tenant.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Event represents an action that triggers a state transition.
type Event string

const (
	EventActivate   Event = "activate"
	EventDeactivate Event = "deactivate"
)

// Transition defines a valid state change: an event moves a tenant from Src to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions defines all valid state changes in the tenant lifecycle.
// This is domain knowledge consumed by the FSM adapter.
var Transitions = []Transition{
	{Event: EventDeactivate, Src: StatusActive, Dst: StatusInactive},
	{Event: EventActivate, Src: StatusInactive, Dst: StatusActive},
}

// Tenant is an isolated retail organization sharing the deployment.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Status    Status
	Plan      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTenant creates a tenant that can trade immediately.
func NewTenant(id, name, slug, plan string) Tenant {
	now := time.Now().UTC()
	return Tenant{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Status:    StatusActive,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
