package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStores hands out Redis-backed session stores, one key pair per
// client instance.
// Key format: dain:session:<client_id>:token and dain:session:<client_id>:user
type SessionStores struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStores wraps client. A non-positive ttl falls back to 24h.
func NewSessionStores(client *redis.Client, ttl time.Duration) *SessionStores {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStores{client: client, ttl: ttl, now: time.Now}
}

// ForClient satisfies ports.SessionStoreProvider.
func (p *SessionStores) ForClient(clientID string) ports.SessionStore {
	return &SessionStore{
		parent:   p,
		tokenKey: fmt.Sprintf("dain:session:%s:token", clientID),
		userKey:  fmt.Sprintf("dain:session:%s:user", clientID),
	}
}

// SessionStore is the Redis mirror of one client instance's session.
type SessionStore struct {
	parent   *SessionStores
	tokenKey string
	userKey  string
}

// Save writes token and profile in one MULTI/EXEC transaction so no reader
// observes one without the other.
func (s *SessionStore) Save(ctx context.Context, token string, user domain.UserProfile) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	ttl := s.parent.expiry(token)

	_, err = s.parent.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey, token, ttl)
		pipe.Set(ctx, s.userKey, payload, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads both keys at once. A lone key or an undecodable profile is
// reported as absent and the scope is cleared.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	vals, err := s.parent.client.MGet(ctx, s.tokenKey, s.userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if vals[0] == nil && vals[1] == nil {
		return nil, nil
	}

	token, _ := vals[0].(string)
	raw, _ := vals[1].(string)
	var user domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, s.Clear(ctx)
	}
	session := &domain.Session{Token: token, User: user}
	if !session.Valid() {
		return nil, s.Clear(ctx)
	}
	return session, nil
}

// Clear deletes both keys; deleting missing keys is not an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.parent.client.Del(ctx, s.tokenKey, s.userKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// expiry caps the configured TTL by the token's own exp claim when the
// token is a JWT. The signature is not checked; the backend remains the
// authority on validity.
func (p *SessionStores) expiry(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return p.ttl
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return p.ttl
	}
	remaining := exp.Sub(p.now())
	if remaining <= 0 {
		// Already expired: keep it briefly so boot can observe the rejection.
		return time.Minute
	}
	if remaining < p.ttl {
		return remaining
	}
	return p.ttl
}
