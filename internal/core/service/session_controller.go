package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/pkg/metrics"
)

// SessionController owns the authentication state machine of one client
// instance. All writes to the state and to the session store go through its
// transition methods; reads are unrestricted.
type SessionController struct {
	clientID string
	store    ports.SessionStore
	gateway  ports.AuthGateway
	events   ports.SessionEventPublisher
	logger   zerolog.Logger

	mu        sync.RWMutex
	state     domain.AuthState
	issued    uint64 // sign-in tickets handed out
	committed uint64 // ticket of the last sign-in that reached the store

	ready     chan struct{}
	readyOnce sync.Once
}

func NewSessionController(
	clientID string,
	store ports.SessionStore,
	gateway ports.AuthGateway,
	events ports.SessionEventPublisher,
	logger zerolog.Logger,
) *SessionController {
	return &SessionController{
		clientID: clientID,
		store:    store,
		gateway:  gateway,
		events:   events,
		logger:   logger.With().Str("client_id", clientID).Logger(),
		state:    domain.Unknown(),
		ready:    make(chan struct{}),
	}
}

// Watch registers the forced sign-out reaction on src. Call once at
// construction time.
func (c *SessionController) Watch(src ports.InvalidationSource) (unsubscribe func()) {
	return src.Subscribe(func(ctx context.Context, reason string) {
		c.ForceSignOut(ctx, reason)
	})
}

// ClientID identifies the client instance this controller serves.
func (c *SessionController) ClientID() string { return c.clientID }

// State returns a snapshot of the current authentication state.
func (c *SessionController) State() domain.AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// CurrentUser returns the authenticated profile, if any.
func (c *SessionController) CurrentUser() (domain.UserProfile, bool) {
	return c.State().User()
}

// IsAuthenticated reports whether a session is active.
func (c *SessionController) IsAuthenticated() bool {
	return c.State().Status == domain.StatusAuthenticated
}

// Ready is closed once the state has left Unknown.
func (c *SessionController) Ready() <-chan struct{} { return c.ready }

// Boot reconciles the persisted session with the backend. It never returns
// an error: every failure resolves to Unauthenticated.
func (c *SessionController) Boot(ctx context.Context) {
	persisted, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("session store unreadable at boot")
		c.resolveBoot(ctx, nil, fmt.Errorf("load session: %w", err))
		return
	}
	if persisted == nil {
		c.resolveBoot(ctx, nil, nil)
		return
	}

	if err := c.gateway.VerifyToken(ctx); err != nil {
		c.resolveBoot(ctx, persisted, err)
		return
	}
	c.resolveBoot(ctx, persisted, nil)
}

func (c *SessionController) resolveBoot(ctx context.Context, persisted *domain.Session, verifyErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != domain.StatusUnknown {
		// A sign-in or forced sign-out already settled the state.
		return
	}

	switch {
	case persisted == nil && verifyErr == nil:
		c.state = domain.Unauthenticated()
		c.logger.Debug().Msg("no persisted session")
	case verifyErr != nil:
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Error().Err(err).Msg("clear rejected session")
		}
		c.state = domain.Unauthenticated()
		if persisted != nil {
			c.logger.Info().Err(verifyErr).Str("user_id", persisted.User.ID).Msg("persisted session rejected")
			c.publish(domain.EventSessionRejected, persisted.User, verifyErr.Error())
			metrics.SessionTransitionsTotal.WithLabelValues(string(domain.EventSessionRejected)).Inc()
		}
	default:
		c.state = domain.Authenticated(*persisted)
		c.logger.Info().Str("user_id", persisted.User.ID).Str("role", string(persisted.User.Role)).Msg("session restored")
		c.publish(domain.EventSessionRestored, persisted.User, "")
		metrics.SessionTransitionsTotal.WithLabelValues(string(domain.EventSessionRestored)).Inc()
	}
	c.markReady()
}

// SignIn exchanges credentials for a session. On failure the state and the
// store are left untouched and the error is returned as is.
func (c *SessionController) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	c.mu.Lock()
	c.issued++
	ticket := c.issued
	c.mu.Unlock()

	session, err := c.gateway.Login(ctx, email, password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(signInOutcome(err)).Inc()
		c.logger.Info().Err(err).Str("email", email).Bool("retryable", domain.Retryable(err)).Msg("sign-in failed")
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket < c.committed {
		// A later attempt already won; store and state stay with it.
		metrics.SignInsTotal.WithLabelValues("superseded").Inc()
		c.logger.Debug().Uint64("ticket", ticket).Uint64("committed", c.committed).Msg("discarding superseded sign-in")
		return nil, domain.ErrSignInSuperseded
	}

	if err := c.store.Save(ctx, session.Token, session.User); err != nil {
		metrics.SignInsTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("persist session: %w", err)
	}
	c.committed = ticket
	c.state = domain.Authenticated(*session)
	c.markReady()

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.EventSignedIn)).Inc()
	c.logger.Info().Str("user_id", session.User.ID).Str("role", string(session.User.Role)).Msg("signed in")
	c.publish(domain.EventSignedIn, session.User, "")

	out := *session
	return &out, nil
}

// SignOut ends the session. It always succeeds and is a no-op when already
// signed out.
func (c *SessionController) SignOut(ctx context.Context) {
	c.endSession(ctx, domain.EventSignedOut, "")
}

// ForceSignOut ends the session because the backend rejected its credential.
// It runs synchronously inside the request that observed the rejection.
func (c *SessionController) ForceSignOut(ctx context.Context, reason string) {
	c.endSession(ctx, domain.EventForcedSignOut, reason)
}

func (c *SessionController) endSession(ctx context.Context, kind domain.SessionEventKind, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateway.Logout(ctx); err != nil {
		c.logger.Error().Err(err).Str("kind", string(kind)).Msg("clear session store")
	}

	prev := c.state
	c.state = domain.Unauthenticated()
	c.markReady()

	user, wasAuthenticated := prev.User()
	if !wasAuthenticated {
		return
	}
	metrics.SessionTransitionsTotal.WithLabelValues(string(kind)).Inc()
	ev := c.logger.Info()
	if kind == domain.EventForcedSignOut {
		ev = c.logger.Warn().Str("reason", reason)
	}
	ev.Str("user_id", user.ID).Msg(string(kind))
	c.publish(kind, user, reason)
}

func (c *SessionController) markReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

func (c *SessionController) publish(kind domain.SessionEventKind, user domain.UserProfile, reason string) {
	if c.events == nil {
		return
	}
	c.events.Publish(domain.SessionEvent{
		ClientID:   c.clientID,
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		Kind:       kind,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
}

func signInOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNetwork):
		return "network_error"
	case errors.Is(err, domain.ErrServer):
		return "server_error"
	}
	return "error"
}
