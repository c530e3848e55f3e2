package ports

import (
	"context"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

// AuthGateway is the typed boundary over the backend authentication
// endpoints. Failures are *domain.APIError values.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	// VerifyToken checks the bearer token currently held in the store.
	VerifyToken(ctx context.Context) error
	// Logout is local only: it clears the session store.
	Logout(ctx context.Context) error
}

// InvalidationSource notifies subscribers when the backend rejects the
// attached credential mid-session.
type InvalidationSource interface {
	Subscribe(fn func(ctx context.Context, reason string)) (unsubscribe func())
}
