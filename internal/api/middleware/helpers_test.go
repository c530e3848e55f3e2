package middleware

import (
	"context"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/db/memory"
)

type stubGateway struct {
	store ports.SessionStore
	user  domain.UserProfile
}

func (g *stubGateway) Login(context.Context, string, string) (*domain.Session, error) {
	return &domain.Session{Token: "tok", User: g.user}, nil
}

func (g *stubGateway) VerifyToken(context.Context) error { return nil }

func (g *stubGateway) Logout(ctx context.Context) error { return g.store.Clear(ctx) }

// newInstance returns an instance whose controller is booted and, when role
// is non-empty, signed in with that role.
func newInstance(t *testing.T, role domain.Role) *service.Instance {
	t.Helper()
	store := memory.NewSessionStores().ForClient("client-1")
	gw := &stubGateway{store: store, user: domain.UserProfile{ID: "u1", Name: "Test", Email: "t@jfsc.jus.br", Role: role}}
	ctrl := service.NewSessionController("client-1", store, gw, nil, zerolog.Nop())
	ctrl.Boot(context.Background())
	if role != "" {
		if _, err := ctrl.SignIn(context.Background(), "t@jfsc.jus.br", "123456"); err != nil {
			t.Fatalf("sign-in: %v", err)
		}
	}
	return service.NewInstance(ctrl, nil, nil)
}

func withInstance(c echo.Context, inst *service.Instance) {
	c.Set(instanceKey, inst)
	c.Set(clientIDKey, inst.Controller.ClientID())
}
