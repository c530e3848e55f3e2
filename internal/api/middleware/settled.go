package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

type pendingResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// SessionSettled holds non-page requests until boot reconciliation has
// resolved, for up to bootWait. A session that is still Unknown afterwards
// gets 503 with Retry-After; it is never reported as signed out.
func SessionSettled(bootWait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inst, ok := Instance(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "client instance not resolved")
			}

			awaitBoot(c.Request().Context(), inst.Controller, bootWait)
			if inst.Controller.State().Status == domain.StatusUnknown {
				return sessionPending(c)
			}
			return next(c)
		}
	}
}

func sessionPending(c echo.Context) error {
	c.Response().Header().Set("Retry-After", "1")
	return c.JSON(http.StatusServiceUnavailable, pendingResponse{
		Error:     "Verificando sua sessão. Tente novamente em instantes.",
		Retryable: true,
	})
}
