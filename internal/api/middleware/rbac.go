package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

// RequireRoles restricts an endpoint to an explicit role set. Unauthenticated
// callers get 401; authenticated callers outside the set get 403 with the
// landing route they should go to instead. An unresolved session gets 503.
func RequireRoles(policy *service.RolePolicy, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inst, ok := Instance(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			state := inst.Controller.State()
			if state.Status == domain.StatusUnknown {
				return sessionPending(c)
			}
			user, ok := state.User()
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":    "unauthenticated",
					"redirect": string(domain.RouteLogin),
				})
			}
			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":    "forbidden",
					"redirect": string(policy.DefaultRoute(user.Role)),
				})
			}
			return next(c)
		}
	}
}
