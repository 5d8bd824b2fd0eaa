package domain_test

import (
	"errors"
	"testing"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, r := range domain.Roles {
		got, err := domain.ParseRole(string(r))
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", r, err)
		}
		if got != r {
			t.Errorf("ParseRole(%q) = %q", r, got)
		}
	}

	_, err := domain.ParseRole("SuperAdmin")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for wrong case, got %v", err)
	}
}

func TestRole_Covers(t *testing.T) {
	cases := []struct {
		holder   domain.Role
		required domain.Role
		want     bool
	}{
		{domain.RoleSuperAdmin, domain.RoleSuperAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleCashier, true},
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.RoleAdmin, domain.RoleCashier, false},
		{domain.RoleAdmin, domain.RoleSuperAdmin, false},
		{domain.RoleCashier, domain.RoleCashier, true},
		{domain.RoleCashier, domain.RoleAdmin, false},
		{domain.RoleCashier, domain.RoleSuperAdmin, false},
		{domain.Role("owner"), domain.RoleCashier, false},
	}

	for _, tc := range cases {
		if got := tc.holder.Covers(tc.required); got != tc.want {
			t.Errorf("%q.Covers(%q) = %v, want %v", tc.holder, tc.required, got, tc.want)
		}
	}
}

func TestRole_CanGrant(t *testing.T) {
	cases := []struct {
		granter domain.Role
		target  domain.Role
		want    bool
	}{
		{domain.RoleSuperAdmin, domain.RoleSuperAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleCashier, true},
		{domain.RoleAdmin, domain.RoleCashier, true},
		{domain.RoleAdmin, domain.RoleAdmin, false},
		{domain.RoleAdmin, domain.RoleSuperAdmin, false},
		{domain.RoleCashier, domain.RoleCashier, false},
	}

	for _, tc := range cases {
		if got := tc.granter.CanGrant(tc.target); got != tc.want {
			t.Errorf("%q.CanGrant(%q) = %v, want %v", tc.granter, tc.target, got, tc.want)
		}
	}
}

func TestRequirement_Allows(t *testing.T) {
	superOnly := domain.SuperAdminOnly()
	if !superOnly.Allows(domain.RoleSuperAdmin) {
		t.Error("SuperAdminOnly must allow superAdmin")
	}
	if superOnly.Allows(domain.RoleAdmin) || superOnly.Allows(domain.RoleCashier) {
		t.Error("SuperAdminOnly must deny tenant roles")
	}

	cashierOnly := domain.AnyOf(domain.RoleCashier)
	if cashierOnly.Allows(domain.RoleAdmin) {
		t.Error("admin is not comparable to cashier")
	}
	if !cashierOnly.Allows(domain.RoleSuperAdmin) {
		t.Error("superAdmin exceeds every role")
	}

	staff := domain.AnyOf(domain.RoleAdmin, domain.RoleCashier)
	for _, r := range domain.Roles {
		if !staff.Allows(r) {
			t.Errorf("staff requirement should allow %q", r)
		}
	}

	if domain.AnyOf().Allows(domain.RoleSuperAdmin) {
		t.Error("empty requirement must deny everyone")
	}
}

func TestScope(t *testing.T) {
	var zero domain.Scope
	if !zero.IsZero() {
		t.Error("zero scope should report IsZero")
	}

	tc := domain.TenantContext{PrincipalID: "u-1", TenantID: "t-1", Role: domain.RoleCashier}
	scope := tc.Scope()
	if scope.IsZero() {
		t.Fatal("scope from context should be bound")
	}
	if scope.TenantID() != "t-1" {
		t.Errorf("TenantID() = %q, want %q", scope.TenantID(), "t-1")
	}
}
