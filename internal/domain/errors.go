package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNoMembership       = errors.New("no tenant associated")
	ErrTenantInactive     = errors.New("tenant inactive")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrUnscoped           = errors.New("tenant scope is required")
)

// ValidationError is returned when a required input is missing or malformed.
// It is always raised before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SlugConflictError is returned when a tenant slug is already in use.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q is already in use", e.Slug)
}

// BarcodeConflictError is returned when a barcode already exists in the tenant catalog.
type BarcodeConflictError struct {
	Barcode string
}

func (e *BarcodeConflictError) Error() string {
	return fmt.Sprintf("barcode %q is already in use", e.Barcode)
}

// MembershipConflictError is returned when a principal already belongs to the tenant.
type MembershipConflictError struct {
	PrincipalID string
	TenantID    string
}

func (e *MembershipConflictError) Error() string {
	return fmt.Sprintf("principal %q is already a member of tenant %q", e.PrincipalID, e.TenantID)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   Event
	Current Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}
