package service

import (
	"testing"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

func TestRolePolicy_MenuRoutesAreAccessible(t *testing.T) {
	p := NewRolePolicy()
	for _, role := range domain.Roles() {
		d := p.Describe(role)
		if len(d.Menu) == 0 {
			t.Fatalf("%s: expected a non-empty menu", role)
		}
		for _, item := range d.Menu {
			if !p.CanAccess(role, item.Route) {
				t.Fatalf("%s: menu route %s denied by its own policy", role, item.Route)
			}
		}
		if !p.CanAccess(role, d.DefaultRoute) {
			t.Fatalf("%s: default route %s not accessible", role, d.DefaultRoute)
		}
	}
}

func TestRolePolicy_UnknownRoleFailsClosed(t *testing.T) {
	p := NewRolePolicy()
	unknown := []domain.Role{
		"",
		"Diretor",
		"usuário interno - diretor da divisão",
		"Usuário interno - Diretor da Divisão ",
		"admin",
	}
	for _, role := range unknown {
		for _, route := range p.ProtectedRoutes() {
			if p.CanAccess(role, route) {
				t.Fatalf("unknown role %q granted %s", role, route)
			}
		}
		d := p.Describe(role)
		if len(d.Menu) != 0 {
			t.Fatalf("unknown role %q got menu %+v", role, d.Menu)
		}
		if d.DefaultRoute != domain.RouteLogin {
			t.Fatalf("unknown role %q: expected /login, got %s", role, d.DefaultRoute)
		}
	}
}

func TestRolePolicy_Descriptors(t *testing.T) {
	p := NewRolePolicy()

	cases := []struct {
		role       domain.Role
		landing    domain.Route
		menuLen    int
		allowed    []domain.Route
		notAllowed []domain.Route
	}{
		{
			role:       domain.RoleDirector,
			landing:    domain.RouteDashboard,
			menuLen:    7,
			allowed:    []domain.Route{domain.RouteUsers, domain.RouteAudits, domain.RouteNormsManuals},
			notAllowed: []domain.Route{domain.RouteAuditedDashboard, domain.RouteResponses},
		},
		{
			role:       domain.RoleAuditor,
			landing:    domain.RouteDashboard,
			menuLen:    6,
			allowed:    []domain.Route{domain.RouteAudits, domain.RouteBankOrders},
			notAllowed: []domain.Route{domain.RouteUsers, domain.RouteNotifications},
		},
		{
			role:       domain.RoleAudited,
			landing:    domain.RouteAuditedDashboard,
			menuLen:    5,
			allowed:    []domain.Route{domain.RouteNotifications, domain.RouteResponses},
			notAllowed: []domain.Route{domain.RouteAudits, domain.RouteDashboard, domain.RouteNormsManuals},
		},
	}

	for _, tc := range cases {
		d := p.Describe(tc.role)
		if d.DefaultRoute != tc.landing {
			t.Fatalf("%s: expected landing %s, got %s", tc.role, tc.landing, d.DefaultRoute)
		}
		if len(d.Menu) != tc.menuLen {
			t.Fatalf("%s: expected %d menu items, got %d", tc.role, tc.menuLen, len(d.Menu))
		}
		for _, r := range tc.allowed {
			if !p.CanAccess(tc.role, r) {
				t.Fatalf("%s: expected access to %s", tc.role, r)
			}
		}
		for _, r := range tc.notAllowed {
			if p.CanAccess(tc.role, r) {
				t.Fatalf("%s: expected no access to %s", tc.role, r)
			}
		}
	}
}

func TestRolePolicy_DirectorMenuEndsWithUsers(t *testing.T) {
	p := NewRolePolicy()
	menu := p.Describe(domain.RoleDirector).Menu
	if last := menu[len(menu)-1]; last.Route != domain.RouteUsers || last.Label != "Usuários" {
		t.Fatalf("unexpected last director item: %+v", last)
	}
	if got := p.Describe(domain.RoleAuditor).Label(domain.RouteUsers); got != "" {
		t.Fatalf("auditor menu must not advertise users, got %q", got)
	}
}

func TestRolePolicy_AllowedRoles(t *testing.T) {
	p := NewRolePolicy()

	users := p.AllowedRoles(domain.RouteUsers)
	if len(users) != 1 || users[0] != domain.RoleDirector {
		t.Fatalf("expected only director on /users, got %v", users)
	}
	if got := p.AllowedRoles(domain.RouteAudits); len(got) != 2 {
		t.Fatalf("expected two internal roles on /audits, got %v", got)
	}
	if got := p.AllowedRoles("/does-not-exist"); got != nil {
		t.Fatalf("expected nil for unowned route, got %v", got)
	}
	if got := len(p.ProtectedRoutes()); got != 12 {
		t.Fatalf("expected 12 protected routes, got %d", got)
	}
}

func TestRolePolicy_CanUseResource(t *testing.T) {
	p := NewRolePolicy()

	cases := []struct {
		role domain.Role
		path string
		want bool
	}{
		{domain.RoleAuditor, "/audits", true},
		{domain.RoleAuditor, "/audits/42?status=open", true},
		{domain.RoleAuditor, "/payments/payment-processes", true},
		{domain.RoleAuditor, "/users", false},
		{domain.RoleDirector, "/users/7", true},
		{domain.RoleAudited, "/audits", false},
		{domain.RoleDirector, "/unknown-resource", false},
		{"intruso", "/audits", false},
		{domain.RoleAuditor, "/audits/../users", false},
		{domain.RoleAuditor, "/audits/./../users/1", false},
		{domain.RoleAuditor, "/users/../audits", true},
	}
	for _, tc := range cases {
		if got := p.CanUseResource(tc.role, tc.path); got != tc.want {
			t.Fatalf("CanUseResource(%q, %q) = %v, want %v", tc.role, tc.path, got, tc.want)
		}
	}
}
