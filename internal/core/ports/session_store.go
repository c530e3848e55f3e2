package ports

import (
	"context"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

// SessionStore is the durable mirror of one client instance's session.
// Token and profile are always written, read and removed together.
type SessionStore interface {
	// Save overwrites both entries in a single step.
	Save(ctx context.Context, token string, user domain.UserProfile) error
	// Load returns the persisted session, or nil when absent or incomplete.
	Load(ctx context.Context) (*domain.Session, error)
	// Clear removes both entries. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// SessionStoreProvider hands out the store scope of a client instance.
type SessionStoreProvider interface {
	ForClient(clientID string) SessionStore
}
