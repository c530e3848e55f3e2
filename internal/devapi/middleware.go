package devapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// BearerAuth validates the JWT of the Authorization header and injects its
// claims into the context. Every failure is a 401, which the gateway treats
// as a rejected session.
func BearerAuth(svc *AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, messageResponse{Message: "missing authorization header"})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, messageResponse{Message: "invalid authorization header"})
			}

			claims, err := svc.Verify(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Token inválido ou expirado"})
			}

			c.Set("user_id", claims.Subject)
			c.Set("role", string(claims.Role))
			return next(c)
		}
	}
}
