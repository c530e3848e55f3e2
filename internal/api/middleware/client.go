package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/service"
)

const (
	instanceKey  = "client_instance"
	clientIDKey  = "client_id"
	cookieMaxAge = 400 * 24 * time.Hour
)

// ClientOptions configures the client-instance cookie.
type ClientOptions struct {
	CookieName string
	Secure     bool
}

// ClientInstance resolves the browser's client instance from its cookie,
// issuing a new UUID cookie on first visit, and stores the instance in the
// context for the guard and handlers.
func ClientInstance(registry *service.InstanceRegistry, opts ClientOptions) echo.MiddlewareFunc {
	name := opts.CookieName
	if name == "" {
		name = "dain_client"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := ""
			if ck, err := c.Cookie(name); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					clientID = ck.Value
				}
			}
			if clientID == "" {
				clientID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     name,
					Value:    clientID,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			inst, err := registry.Get(c.Request().Context(), clientID)
			if err != nil {
				return err
			}
			c.Set(clientIDKey, clientID)
			c.Set(instanceKey, inst)
			return next(c)
		}
	}
}

// Instance returns the client instance resolved by ClientInstance.
func Instance(c echo.Context) (*service.Instance, bool) {
	inst, ok := c.Get(instanceKey).(*service.Instance)
	return inst, ok && inst != nil
}

// ClientID returns the client instance ID resolved by ClientInstance.
func ClientID(c echo.Context) string {
	id, _ := c.Get(clientIDKey).(string)
	return id
}
