package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/pkg/metrics"
)

type loadingResponse struct {
	Status string `json:"status"`
}

// Guard runs the route guard on every request. It waits up to bootWait for
// boot reconciliation, then renders, redirects, or answers 202 with a
// loading placeholder.
func Guard(guard *service.RouteGuard, policy *service.RolePolicy, bootWait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inst, ok := Instance(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "client instance not resolved")
			}

			awaitBoot(c.Request().Context(), inst.Controller, bootWait)

			target := domain.NormalizeRoute(c.Request().URL.Path)
			decision := guard.Evaluate(inst.Controller.State(), target)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.Kind.String(), routeLabel(policy, target)).Inc()

			switch decision.Kind {
			case service.DecisionLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusAccepted, loadingResponse{Status: "loading"})
			case service.DecisionRedirect:
				return c.Redirect(http.StatusFound, string(decision.Target))
			}
			return next(c)
		}
	}
}

func awaitBoot(ctx context.Context, ctrl *service.SessionController, wait time.Duration) {
	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctrl.Ready():
	case <-timer.C:
	case <-ctx.Done():
	}
}

// routeLabel keeps metric cardinality bounded to the known routes.
func routeLabel(policy *service.RolePolicy, r domain.Route) string {
	switch r {
	case domain.RouteRoot, domain.RouteLogin:
		return string(r)
	}
	if policy.AllowedRoles(r) != nil {
		return string(r)
	}
	return "other"
}
