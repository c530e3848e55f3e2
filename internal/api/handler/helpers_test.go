package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/db/memory"
)

type stubGateway struct {
	store    ports.SessionStore
	user     domain.UserProfile
	loginErr error
}

func (g *stubGateway) Login(context.Context, string, string) (*domain.Session, error) {
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	return &domain.Session{Token: "tok", User: g.user}, nil
}

func (g *stubGateway) VerifyToken(context.Context) error { return nil }

func (g *stubGateway) Logout(ctx context.Context) error { return g.store.Clear(ctx) }

type stubBackend struct {
	forwardFn func(ctx context.Context, req ports.ForwardRequest) (*ports.ForwardResponse, error)
}

func (b *stubBackend) Forward(ctx context.Context, req ports.ForwardRequest) (*ports.ForwardResponse, error) {
	return b.forwardFn(ctx, req)
}

var (
	testDirector = domain.UserProfile{ID: "1", Name: "Hugo", Email: "hugo@jfsc.jus.br", Role: domain.RoleDirector}
	testAuditor  = domain.UserProfile{ID: "2", Name: "Ana", Email: "ana@jfsc.jus.br", Role: domain.RoleAuditor}
	testAudited  = domain.UserProfile{ID: "3", Name: "Setor", Email: "auditado@jfsc.jus.br", Role: domain.RoleAudited}
)

// newTestInstance boots an instance and, when user has a role, signs it in.
func newTestInstance(t *testing.T, gw *stubGateway, backend ports.Backend) *service.Instance {
	t.Helper()
	store := memory.NewSessionStores().ForClient("client-1")
	gw.store = store
	ctrl := service.NewSessionController("client-1", store, gw, nil, zerolog.Nop())
	ctrl.Boot(context.Background())
	if gw.user.Role != "" && gw.loginErr == nil {
		if _, err := ctrl.SignIn(context.Background(), gw.user.Email, "123456"); err != nil {
			t.Fatalf("sign-in: %v", err)
		}
	}
	return service.NewInstance(ctrl, backend, nil)
}

func newContext(method, target, body string, inst *service.Instance) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if inst != nil {
		c.Set("client_instance", inst)
		c.Set("client_id", inst.Controller.ClientID())
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}
