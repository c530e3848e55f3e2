package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

func TestRequireRoles_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit-trail", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withInstance(c, newInstance(t, domain.RoleDirector))

	called := false
	mw := RequireRoles(service.NewRolePolicy(), domain.RoleDirector)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRoles_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit-trail", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withInstance(c, newInstance(t, domain.RoleAudited))

	mw := RequireRoles(service.NewRolePolicy(), domain.RoleDirector)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["redirect"] != string(domain.RouteAuditedDashboard) {
		t.Fatalf("expected redirect to the landing route, got %+v", body)
	}
}

func TestRequireRoles_Unauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit-trail", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withInstance(c, newInstance(t, ""))

	mw := RequireRoles(service.NewRolePolicy(), domain.RoleDirector)
	_ = mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["redirect"] != string(domain.RouteLogin) {
		t.Fatalf("expected redirect to /login, got %+v", body)
	}
}
