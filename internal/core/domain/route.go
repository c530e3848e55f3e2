package domain

import "strings"

// Route is a navigable dashboard path.
type Route string

const (
	RouteRoot    Route = "/"
	RouteLogin   Route = "/login"
	RouteSession Route = "/session"

	RouteDashboard         Route = "/dashboard"
	RouteAudits            Route = "/audits"
	RoutePaymentProcesses  Route = "/payment-processes"
	RouteBankOrders        Route = "/bank-orders"
	RouteDocumentGenerator Route = "/document-generator"
	RouteNormsManuals      Route = "/norms-manuals"
	RouteUsers             Route = "/users"

	RouteAuditedDashboard Route = "/audited-dashboard"
	RouteNotifications    Route = "/notifications"
	RouteReports          Route = "/reports"
	RouteAccessRequests   Route = "/access-requests"
	RouteResponses        Route = "/responses"
)

// NormalizeRoute trims query strings and trailing slashes so that
// "/audits/" and "/audits?x=1" resolve to "/audits".
func NormalizeRoute(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return RouteRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return Route(path)
}

// MenuItem is one entry of a role's navigation menu.
type MenuItem struct {
	Route Route  `json:"route"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// RoleDescriptor is the navigation and access data derived from a role.
type RoleDescriptor struct {
	Role         Role       `json:"role"`
	DefaultRoute Route      `json:"default_route"`
	Menu         []MenuItem `json:"menu"`

	granted map[Route]struct{}
}

// NewRoleDescriptor builds a descriptor granting every menu route plus any
// extra routes given.
func NewRoleDescriptor(role Role, defaultRoute Route, menu []MenuItem, extra ...Route) RoleDescriptor {
	granted := make(map[Route]struct{}, len(menu)+len(extra))
	for _, item := range menu {
		granted[item.Route] = struct{}{}
	}
	for _, r := range extra {
		granted[r] = struct{}{}
	}
	return RoleDescriptor{Role: role, DefaultRoute: defaultRoute, Menu: menu, granted: granted}
}

// CanAccess reports whether the role may open route. Anything not granted
// is denied.
func (d RoleDescriptor) CanAccess(route Route) bool {
	_, ok := d.granted[route]
	return ok
}

// Label returns the menu label for route, or "" when the route is not
// advertised.
func (d RoleDescriptor) Label(route Route) string {
	for _, item := range d.Menu {
		if item.Route == route {
			return item.Label
		}
	}
	return ""
}
