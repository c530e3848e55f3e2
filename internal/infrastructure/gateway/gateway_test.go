package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/db/memory"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/httpclient"
)

var hugo = domain.UserProfile{ID: "1", Name: "Hugo", Email: "hugo@jfsc.jus.br", Role: domain.RoleDirector}

type fixture struct {
	srv      *httptest.Server
	store    ports.SessionStore
	notifier *httpclient.Notifier
	gateway  *AuthGateway
	backend  *Backend
	reasons  []string
}

func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{
		srv:      httptest.NewServer(h),
		store:    memory.NewSessionStores().ForClient("client-1"),
		notifier: httpclient.NewNotifier(),
	}
	t.Cleanup(f.srv.Close)
	f.notifier.Subscribe(func(_ context.Context, reason string) { f.reasons = append(f.reasons, reason) })

	client := NewSessionTransport(f.srv.URL+"/api", 2*time.Second, nil, f.store, f.notifier)
	f.gateway = NewAuthGateway(client, f.store)
	f.backend = NewBackend(client)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthGateway_Login(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != hugo.Email || body["password"] != "123456" {
			t.Errorf("unexpected credentials %+v", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "jwt", "user": hugo})
	})

	session, err := f.gateway.Login(context.Background(), hugo.Email, "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token != "jwt" || session.User != hugo {
		t.Fatalf("unexpected session %+v", session)
	}
	if s, _ := f.store.Load(context.Background()); s != nil {
		t.Fatalf("the gateway must not persist the session itself")
	}
}

func TestAuthGateway_Login_Rejected(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
	})
	_ = f.store.Save(context.Background(), "existing", hugo)

	_, err := f.gateway.Login(context.Background(), hugo.Email, "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Credenciais inválidas" {
		t.Fatalf("expected backend message, got %+v", apiErr)
	}
	if len(f.reasons) != 0 {
		t.Fatalf("a failed login must not trigger the sign-out hook, got %q", f.reasons)
	}
	if s, _ := f.store.Load(context.Background()); s == nil || s.Token != "existing" {
		t.Fatalf("store must be untouched, got %+v", s)
	}
}

func TestAuthGateway_Login_ServerFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"5xx": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		},
		"no token": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"user": hugo})
		},
	}
	for name, h := range cases {
		f := newFixture(t, h)
		if _, err := f.gateway.Login(context.Background(), hugo.Email, "123456"); !errors.Is(err, domain.ErrServer) {
			t.Fatalf("%s: expected ErrServer, got %v", name, err)
		}
	}
}

func TestAuthGateway_VerifyToken(t *testing.T) {
	var auth string
	status := http.StatusOK
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/verify-token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		writeJSON(w, status, map[string]string{"message": "Token inválido"})
	})
	_ = f.store.Save(context.Background(), "jwt", hugo)

	if err := f.gateway.VerifyToken(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer jwt" {
		t.Fatalf("expected bearer token, got %q", auth)
	}

	status = http.StatusUnauthorized
	if err := f.gateway.VerifyToken(context.Background()); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if len(f.reasons) != 0 {
		t.Fatalf("verify-token rejection is handled by boot, not the hook; got %q", f.reasons)
	}

	status = http.StatusBadGateway
	if err := f.gateway.VerifyToken(context.Background()); !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
}

func TestAuthGateway_LogoutClearsStore(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("logout must not call the backend")
	})
	_ = f.store.Save(context.Background(), "jwt", hugo)

	if err := f.gateway.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, _ := f.store.Load(context.Background()); s != nil {
		t.Fatalf("expected empty store")
	}
}

func TestBackend_ForwardRelaysResponses(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.URL.Path == "/api/audits" && r.Method == http.MethodPost {
			writeJSON(w, http.StatusCreated, map[string]string{"echo": string(body)})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Recurso não encontrado"})
	})
	_ = f.store.Save(context.Background(), "jwt", hugo)

	resp, err := f.backend.Forward(context.Background(), ports.ForwardRequest{
		Method:      http.MethodPost,
		Path:        "/audits",
		ContentType: "application/json",
		Body:        []byte(`{"title":"x"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusCreated || resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %v", resp.Status, resp.Header)
	}

	resp, err = f.backend.Forward(context.Background(), ports.ForwardRequest{Method: http.MethodGet, Path: "/missing"})
	if err != nil || resp.Status != http.StatusNotFound {
		t.Fatalf("4xx must be relayed, got %v %+v", err, resp)
	}
}

func TestBackend_Forward401NotifiesBeforeReturning(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expirado"})
	})
	_ = f.store.Save(context.Background(), "jwt", hugo)

	_, err := f.backend.Forward(context.Background(), ports.ForwardRequest{Method: http.MethodGet, Path: "/audits"})
	if !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if len(f.reasons) != 1 || f.reasons[0] != "Token expirado" {
		t.Fatalf("expected one notification, got %q", f.reasons)
	}
}

func TestBackend_Forward5xxIsServerError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := f.backend.Forward(context.Background(), ports.ForwardRequest{Method: http.MethodGet, Path: "/audits"})
	if !errors.Is(err, domain.ErrServer) || !domain.Retryable(err) {
		t.Fatalf("expected retryable ErrServer, got %v", err)
	}
}
