package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/httpclient"
)

const (
	loginPath  = "/auth/login"
	verifyPath = "/auth/verify-token"
)

// AuthGateway talks to the backend authentication endpoints.
type AuthGateway struct {
	client *httpclient.Client
	store  ports.SessionStore
}

func NewAuthGateway(client *httpclient.Client, store ports.SessionStore) *AuthGateway {
	return &AuthGateway{client: client, store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string              `json:"token"`
	User  *domain.UserProfile `json:"user"`
}

// Login exchanges credentials for a session. Any 4xx is reported as
// ErrInvalidCredentials carrying the backend's message.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(httpclient.CredentialExchange(ctx), httpclient.Request{
		Method:      http.MethodPost,
		Path:        loginPath,
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status >= 400 && resp.Status < 500:
		return nil, &domain.APIError{Kind: domain.ErrInvalidCredentials, Status: resp.Status, Message: httpclient.Message(resp.Body)}
	case resp.Status < 200 || resp.Status >= 300:
		return nil, &domain.APIError{Kind: domain.ErrServer, Status: resp.Status, Message: httpclient.Message(resp.Body)}
	}

	var out loginResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, &domain.APIError{Kind: domain.ErrServer, Status: resp.Status, Message: "malformed login response", Err: err}
	}
	if out.Token == "" || out.User == nil || out.User.ID == "" {
		return nil, &domain.APIError{Kind: domain.ErrServer, Status: resp.Status, Message: "login response without token or user"}
	}
	return &domain.Session{Token: out.Token, User: *out.User}, nil
}

// VerifyToken confirms the stored bearer token. Any 4xx is reported as
// ErrInvalidSession.
func (g *AuthGateway) VerifyToken(ctx context.Context) error {
	resp, err := g.client.Do(httpclient.CredentialExchange(ctx), httpclient.Request{
		Method: http.MethodGet,
		Path:   verifyPath,
	})
	if err != nil {
		return err
	}
	switch {
	case resp.Status >= 200 && resp.Status < 300:
		return nil
	case resp.Status >= 400 && resp.Status < 500:
		return &domain.APIError{Kind: domain.ErrInvalidSession, Status: resp.Status, Message: httpclient.Message(resp.Body)}
	}
	return &domain.APIError{Kind: domain.ErrServer, Status: resp.Status, Message: httpclient.Message(resp.Body)}
}

// Logout clears the local session. The backend keeps no server-side session
// to revoke.
func (g *AuthGateway) Logout(ctx context.Context) error {
	return g.store.Clear(ctx)
}
