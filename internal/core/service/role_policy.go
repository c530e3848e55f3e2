package service

import (
	"path"
	"strings"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

var internalMenu = []domain.MenuItem{
	{Route: domain.RouteDashboard, Label: "Dashboard", Icon: "📊"},
	{Route: domain.RouteAudits, Label: "Auditorias", Icon: "🔍"},
	{Route: domain.RoutePaymentProcesses, Label: "Processos de Pagamento Continuado", Icon: "💰"},
	{Route: domain.RouteBankOrders, Label: "Conferência de Ordens Bancárias", Icon: "🏦"},
	{Route: domain.RouteDocumentGenerator, Label: "Gerador de Documentos", Icon: "📄"},
	{Route: domain.RouteNormsManuals, Label: "Normas e Manuais", Icon: "📚"},
}

var usersMenuItem = domain.MenuItem{Route: domain.RouteUsers, Label: "Usuários", Icon: "👥"}

var auditedMenu = []domain.MenuItem{
	{Route: domain.RouteAuditedDashboard, Label: "Dashboard", Icon: "📊"},
	{Route: domain.RouteNotifications, Label: "Notificações", Icon: "🔔"},
	{Route: domain.RouteReports, Label: "Relatórios e notas de auditorias", Icon: "📝"},
	{Route: domain.RouteAccessRequests, Label: "Requisições de acesso a outros documentos", Icon: "🔑"},
	{Route: domain.RouteResponses, Label: "Respostas/Manifestações", Icon: "💬"},
}

// resourceRoutes maps the first segment of a backend API path to the
// dashboard route whose page consumes it.
var resourceRoutes = map[string]domain.Route{
	"audits":        domain.RouteAudits,
	"payments":      domain.RoutePaymentProcesses,
	"bank-orders":   domain.RouteBankOrders,
	"documents":     domain.RouteDocumentGenerator,
	"norms-manuals": domain.RouteNormsManuals,
	"users":         domain.RouteUsers,
}

// RolePolicy maps roles to navigation and access decisions. It holds no
// mutable state; descriptors are built once.
type RolePolicy struct {
	descriptors map[domain.Role]domain.RoleDescriptor
	protected   map[domain.Route]struct{}
}

func NewRolePolicy() *RolePolicy {
	p := &RolePolicy{
		descriptors: make(map[domain.Role]domain.RoleDescriptor, 3),
		protected:   make(map[domain.Route]struct{}),
	}
	for _, role := range domain.Roles() {
		d := describe(role)
		p.descriptors[role] = d
		for _, item := range d.Menu {
			p.protected[item.Route] = struct{}{}
		}
	}
	return p
}

// describe is the exhaustive role table. Adding a Role constant without a
// case here leaves that role fail-closed.
func describe(role domain.Role) domain.RoleDescriptor {
	switch role {
	case domain.RoleDirector:
		menu := append(append([]domain.MenuItem{}, internalMenu...), usersMenuItem)
		return domain.NewRoleDescriptor(role, domain.RouteDashboard, menu)
	case domain.RoleAuditor:
		return domain.NewRoleDescriptor(role, domain.RouteDashboard, append([]domain.MenuItem{}, internalMenu...))
	case domain.RoleAudited:
		return domain.NewRoleDescriptor(role, domain.RouteAuditedDashboard, append([]domain.MenuItem{}, auditedMenu...))
	}
	return domain.NewRoleDescriptor(role, domain.RouteLogin, nil)
}

// Describe returns the descriptor for role. Unknown roles get an empty menu,
// no grants and the login entry point as landing route.
func (p *RolePolicy) Describe(role domain.Role) domain.RoleDescriptor {
	if d, ok := p.descriptors[role]; ok {
		return d
	}
	return describe(role)
}

// DefaultRoute is the landing route of role.
func (p *RolePolicy) DefaultRoute(role domain.Role) domain.Route {
	return p.Describe(role).DefaultRoute
}

// CanAccess reports whether role may open route.
func (p *RolePolicy) CanAccess(role domain.Role, route domain.Route) bool {
	return p.Describe(role).CanAccess(route)
}

// AllowedRoles returns the roles that may open route, or nil when route is
// not access-controlled by any role.
func (p *RolePolicy) AllowedRoles(route domain.Route) []domain.Role {
	if _, ok := p.protected[route]; !ok {
		return nil
	}
	var roles []domain.Role
	for _, role := range domain.Roles() {
		if p.descriptors[role].CanAccess(route) {
			roles = append(roles, role)
		}
	}
	return roles
}

// ProtectedRoutes lists every route granted to at least one role.
func (p *RolePolicy) ProtectedRoutes() []domain.Route {
	routes := make([]domain.Route, 0, len(p.protected))
	for _, role := range domain.Roles() {
		for _, item := range p.descriptors[role].Menu {
			if !containsRoute(routes, item.Route) {
				routes = append(routes, item.Route)
			}
		}
	}
	return routes
}

// ResourceRoute resolves the dashboard route owning a backend API path such
// as "/audits?status=x" or "/payments/payment-processes/1". Dot segments are
// resolved before the owning segment is read.
func (p *RolePolicy) ResourceRoute(apiPath string) (domain.Route, bool) {
	segment := strings.TrimPrefix(path.Clean(string(domain.NormalizeRoute(apiPath))), "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	r, ok := resourceRoutes[segment]
	return r, ok
}

// CanUseResource reports whether role may call the backend API path. Paths
// that no dashboard page owns are denied.
func (p *RolePolicy) CanUseResource(role domain.Role, apiPath string) bool {
	route, ok := p.ResourceRoute(apiPath)
	if !ok {
		return false
	}
	return p.CanAccess(role, route)
}

func containsRoute(routes []domain.Route, r domain.Route) bool {
	for _, x := range routes {
		if x == r {
			return true
		}
	}
	return false
}
