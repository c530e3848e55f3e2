package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/db/memory"
)

func TestProxyHandler_Forwards(t *testing.T) {
	var got ports.ForwardRequest
	backend := &stubBackend{forwardFn: func(_ context.Context, req ports.ForwardRequest) (*ports.ForwardResponse, error) {
		got = req
		return &ports.ForwardResponse{
			Status: http.StatusCreated,
			Header: http.Header{"Content-Type": {"application/json"}},
			Body:   []byte(`{"id":"a1"}`),
		}, nil
	}}
	inst := newTestInstance(t, &stubGateway{user: testDirector}, backend)
	h := NewProxyHandler(service.NewRolePolicy())

	c, rec := newContext(http.MethodPost, "/api/audits?year=2025", `{"title":"t"}`, inst)
	c.SetParamNames("*")
	c.SetParamValues("audits")

	if err := h.Forward(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Method != http.MethodPost || got.Path != "/audits" || got.Query.Get("year") != "2025" || string(got.Body) != `{"title":"t"}` {
		t.Fatalf("unexpected forward request %+v", got)
	}
	if rec.Code != http.StatusCreated || rec.Body.String() != `{"id":"a1"}` {
		t.Fatalf("unexpected relay %d %s", rec.Code, rec.Body.String())
	}
}

func TestProxyHandler_ForbiddenResource(t *testing.T) {
	backend := &stubBackend{forwardFn: func(context.Context, ports.ForwardRequest) (*ports.ForwardResponse, error) {
		t.Fatalf("forbidden calls must not reach the backend")
		return nil, nil
	}}
	inst := newTestInstance(t, &stubGateway{user: testAudited}, backend)
	h := NewProxyHandler(service.NewRolePolicy())

	c, _ := newContext(http.MethodGet, "/api/users", "", inst)
	c.SetParamNames("*")
	c.SetParamValues("users")
	if err := h.Forward(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProxyHandler_RequiresSession(t *testing.T) {
	inst := newTestInstance(t, &stubGateway{}, &stubBackend{})
	h := NewProxyHandler(service.NewRolePolicy())

	c, _ := newContext(http.MethodGet, "/api/audits", "", inst)
	c.SetParamNames("*")
	c.SetParamValues("audits")
	if err := h.Forward(c); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestProxyHandler_PropagatesBackendErrors(t *testing.T) {
	backend := &stubBackend{forwardFn: func(context.Context, ports.ForwardRequest) (*ports.ForwardResponse, error) {
		return nil, &domain.APIError{Kind: domain.ErrNetwork, Err: io.ErrUnexpectedEOF}
	}}
	inst := newTestInstance(t, &stubGateway{user: testDirector}, backend)
	h := NewProxyHandler(service.NewRolePolicy())

	c, _ := newContext(http.MethodGet, "/api/audits", "", inst)
	c.SetParamNames("*")
	c.SetParamValues("audits")
	err := h.Forward(c)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if !inst.Controller.IsAuthenticated() {
		t.Fatalf("a network error must not end the session")
	}
}

func TestProxyHandler_EmptyBody(t *testing.T) {
	backend := &stubBackend{forwardFn: func(context.Context, ports.ForwardRequest) (*ports.ForwardResponse, error) {
		return &ports.ForwardResponse{Status: http.StatusNoContent, Header: http.Header{}}, nil
	}}
	inst := newTestInstance(t, &stubGateway{user: testDirector}, backend)
	h := NewProxyHandler(service.NewRolePolicy())

	c, rec := newContext(http.MethodDelete, "/api/audits/1", "", inst)
	c.SetParamNames("*")
	c.SetParamValues("audits/1")
	if err := h.Forward(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || strings.TrimSpace(rec.Body.String()) != "" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestProxyHandler_ResolvesDotSegmentsBeforeRoleCheck(t *testing.T) {
	cases := []struct {
		name   string
		user   domain.UserProfile
		param  string
		want   string
		status int
	}{
		{"auditor climbing into users", testAuditor, "audits/../users", "", http.StatusForbidden},
		{"encoded dot segments", testAuditor, "audits/%2e%2e/users", "", http.StatusForbidden},
		{"double encoded dot segments", testAuditor, "audits/%252e%252e/users", "", http.StatusBadRequest},
		{"director gets the cleaned path", testDirector, "audits/../users", "/users", http.StatusOK},
		{"auditor inside own resource", testAuditor, "audits/x/../42", "/audits/42", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			forwarded := ""
			backend := &stubBackend{forwardFn: func(_ context.Context, req ports.ForwardRequest) (*ports.ForwardResponse, error) {
				forwarded = req.Path
				return &ports.ForwardResponse{Status: http.StatusOK, Header: http.Header{}, Body: []byte(`[]`)}, nil
			}}
			inst := newTestInstance(t, &stubGateway{user: tc.user}, backend)
			h := NewProxyHandler(service.NewRolePolicy())

			c, _ := newContext(http.MethodGet, "/api/audits", "", inst)
			c.SetParamNames("*")
			c.SetParamValues(tc.param)
			err := h.Forward(c)

			switch tc.status {
			case http.StatusOK:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if forwarded != tc.want {
					t.Fatalf("expected %q to be forwarded, got %q", tc.want, forwarded)
				}
			case http.StatusForbidden:
				if !errors.Is(err, domain.ErrForbidden) {
					t.Fatalf("expected ErrForbidden, got %v", err)
				}
			default:
				var he *echo.HTTPError
				if !errors.As(err, &he) || he.Code != tc.status {
					t.Fatalf("expected HTTP %d, got %v", tc.status, err)
				}
			}
			if tc.status != http.StatusOK && forwarded != "" {
				t.Fatalf("refused call reached the backend with %q", forwarded)
			}
		})
	}
}

func TestProxyHandler_WaitsOutUnresolvedSession(t *testing.T) {
	store := memory.NewSessionStores().ForClient("client-1")
	ctrl := service.NewSessionController("client-1", store, &stubGateway{store: store}, nil, zerolog.Nop())
	inst := service.NewInstance(ctrl, &stubBackend{}, nil)
	h := NewProxyHandler(service.NewRolePolicy())

	c, _ := newContext(http.MethodGet, "/api/audits", "", inst)
	c.SetParamNames("*")
	c.SetParamValues("audits")
	err := h.Forward(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusServiceUnavailable {
		t.Fatalf("an unbooted session must not be reported as signed out, got %v", err)
	}
}
