package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/db/memory"
)

func newRegistry() *service.InstanceRegistry {
	stores := memory.NewSessionStores()
	return service.NewInstanceRegistry(func(clientID string) (*service.Instance, error) {
		store := stores.ForClient(clientID)
		ctrl := service.NewSessionController(clientID, store, &stubGateway{store: store}, nil, zerolog.Nop())
		return service.NewInstance(ctrl, nil, nil), nil
	}, zerolog.Nop())
}

func serveClient(t *testing.T, registry *service.InstanceRegistry, cookie *http.Cookie) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := ClientInstance(registry, ClientOptions{})(func(c echo.Context) error {
		inst, ok := Instance(c)
		if !ok {
			t.Fatalf("instance not set")
		}
		if inst.Controller.ClientID() != ClientID(c) {
			t.Fatalf("client id mismatch")
		}
		seen = ClientID(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec, seen
}

func TestClientInstance_IssuesCookie(t *testing.T) {
	registry := newRegistry()
	rec, id := serveClient(t, registry, nil)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "dain_client" || cookies[0].Value != id {
		t.Fatalf("expected dain_client cookie for %s, got %+v", id, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("client cookie must be HttpOnly")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a UUID client id, got %q", id)
	}
}

func TestClientInstance_ReusesCookie(t *testing.T) {
	registry := newRegistry()
	id := uuid.NewString()

	rec, seen := serveClient(t, registry, &http.Cookie{Name: "dain_client", Value: id})
	if seen != id {
		t.Fatalf("expected client %s, got %s", id, seen)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("a valid cookie must not be reissued")
	}
	_, _ = serveClient(t, registry, &http.Cookie{Name: "dain_client", Value: id})
	if registry.Len() != 1 {
		t.Fatalf("expected one instance, got %d", registry.Len())
	}
}

func TestClientInstance_ReplacesForgedCookie(t *testing.T) {
	registry := newRegistry()
	_, seen := serveClient(t, registry, &http.Cookie{Name: "dain_client", Value: "../../etc"})
	if seen == "../../etc" {
		t.Fatalf("non-UUID cookie must be replaced")
	}
}
