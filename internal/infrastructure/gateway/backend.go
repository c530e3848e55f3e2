package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/httpclient"
)

// Backend relays domain-data calls (audits, payments, bank orders, ...)
// through the session-bound transport.
type Backend struct {
	client *httpclient.Client
}

func NewBackend(client *httpclient.Client) *Backend {
	return &Backend{client: client}
}

// Forward sends req and relays the answer. A 401 has already been reported
// to the invalidation source by the transport when the error is returned;
// 5xx and network failures are errors, everything else is relayed.
func (b *Backend) Forward(ctx context.Context, req ports.ForwardRequest) (*ports.ForwardResponse, error) {
	resp, err := b.client.Do(ctx, httpclient.Request{
		Method:      req.Method,
		Path:        req.Path,
		Query:       req.Query,
		ContentType: req.ContentType,
		Body:        req.Body,
	})
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusUnauthorized || resp.Status >= 500 {
		return nil, httpclient.Classify(resp)
	}
	return &ports.ForwardResponse{Status: resp.Status, Header: resp.Header, Body: resp.Body}, nil
}

var _ ports.Backend = (*Backend)(nil)
var _ ports.AuthGateway = (*AuthGateway)(nil)

// NewSessionTransport builds the transport of one client instance: bearer
// token read from store, 401s reported to notifier.
func NewSessionTransport(baseURL string, timeout time.Duration, opts []httpclient.Option, store ports.SessionStore, notifier *httpclient.Notifier) *httpclient.Client {
	all := append([]httpclient.Option{
		httpclient.WithRequestInterceptor(httpclient.BearerToken(func(ctx context.Context) (string, error) {
			s, err := store.Load(ctx)
			if err != nil || s == nil {
				return "", err
			}
			return s.Token, nil
		})),
		httpclient.WithResponseInterceptor(httpclient.RejectionHook(notifier)),
	}, opts...)
	return httpclient.New(baseURL, timeout, all...)
}
