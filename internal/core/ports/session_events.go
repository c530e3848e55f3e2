package ports

import (
	"context"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

// SessionEventRepository persists the session audit trail.
type SessionEventRepository interface {
	Insert(ctx context.Context, event *domain.SessionEvent) error
	// ListRecent returns the newest events first, optionally filtered by user.
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.SessionEvent, error)
}

// SessionEventPublisher accepts lifecycle events without blocking the
// transition that produced them.
type SessionEventPublisher interface {
	Publish(event domain.SessionEvent)
}
