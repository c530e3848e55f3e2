package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

type ctxKey int

const credentialExchangeKey ctxKey = iota

// CredentialExchange marks ctx as carrying a login or token-verification
// call. Such calls report rejection to their caller instead of triggering
// the global sign-out hook.
func CredentialExchange(ctx context.Context) context.Context {
	return context.WithValue(ctx, credentialExchangeKey, true)
}

func isCredentialExchange(ctx context.Context) bool {
	v, _ := ctx.Value(credentialExchangeKey).(bool)
	return v
}

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func(ctx context.Context) (string, error)

// BearerToken attaches "Authorization: Bearer <token>" when a token exists.
func BearerToken(src TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		token, err := src(req.Context())
		if err != nil {
			return fmt.Errorf("read bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// RejectionHook notifies n whenever the backend answers 401 to a request
// that is not a credential exchange.
func RejectionHook(n *Notifier) ResponseInterceptor {
	return func(req *http.Request, resp *Response) {
		if resp.Status != http.StatusUnauthorized || isCredentialExchange(req.Context()) {
			return
		}
		reason := Message(resp.Body)
		if reason == "" {
			reason = fmt.Sprintf("%s %s rejected with 401", req.Method, req.URL.Path)
		}
		n.Notify(req.Context(), reason)
	}
}

// Notifier fans a "session invalidated" notification out to subscribers.
// Notify runs subscribers synchronously, in subscription order.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(ctx context.Context, reason string)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn and returns a func that removes it.
func (n *Notifier) Subscribe(fn func(ctx context.Context, reason string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription{id: id, fn: fn})
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify delivers reason to every subscriber.
func (n *Notifier) Notify(ctx context.Context, reason string) {
	n.mu.Lock()
	subs := make([]subscription, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, s := range subs {
		s.fn(ctx, reason)
	}
}
