package service

import (
	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

// DecisionKind is the outcome of a navigation attempt.
type DecisionKind int

const (
	DecisionRender DecisionKind = iota
	DecisionRedirect
	DecisionLoading
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRedirect:
		return "redirect"
	case DecisionLoading:
		return "loading"
	default:
		return "render"
	}
}

// Decision tells the caller to render the target, redirect to Target, or
// show a loading placeholder.
type Decision struct {
	Kind   DecisionKind
	Target domain.Route
}

// RouteGuard decides, per navigation, whether the current authentication
// state may see a route. It keeps no state between evaluations.
type RouteGuard struct {
	policy *RolePolicy
}

func NewRouteGuard(policy *RolePolicy) *RouteGuard {
	return &RouteGuard{policy: policy}
}

// Evaluate applies the guard rules to target for state. Routes that no
// role owns (the not-found fallback) render for any authenticated session.
func (g *RouteGuard) Evaluate(state domain.AuthState, target domain.Route) Decision {
	return g.EvaluateWithRoles(state, target, g.policy.AllowedRoles(target))
}

// EvaluateWithRoles is Evaluate with an explicit allowed-role set; an empty
// set means any authenticated role.
func (g *RouteGuard) EvaluateWithRoles(state domain.AuthState, target domain.Route, allowed []domain.Role) Decision {
	switch state.Status {
	case domain.StatusUnknown:
		return Decision{Kind: DecisionLoading}
	case domain.StatusUnauthenticated:
		if target == domain.RouteLogin {
			return Decision{Kind: DecisionRender}
		}
		return redirect(domain.RouteLogin)
	}

	user, ok := state.User()
	if !ok {
		return redirect(domain.RouteLogin)
	}
	landing := g.policy.DefaultRoute(user.Role)

	switch target {
	case domain.RouteLogin:
		if landing == domain.RouteLogin {
			// An unknown role has nowhere else to go.
			return Decision{Kind: DecisionRender}
		}
		return redirect(landing)
	case domain.RouteRoot:
		return redirect(landing)
	}

	if len(allowed) > 0 && !hasRole(allowed, user.Role) {
		return redirect(landing)
	}
	return Decision{Kind: DecisionRender}
}

func redirect(to domain.Route) Decision {
	return Decision{Kind: DecisionRedirect, Target: to}
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
