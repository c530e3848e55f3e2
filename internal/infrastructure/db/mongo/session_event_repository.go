package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
)

const (
	sessionEventsCollection = "session_events"
	maxListLimit            = 200
)

// SessionEventRepository implements ports.SessionEventRepository using MongoDB.
type SessionEventRepository struct {
	coll *mongo.Collection
}

// NewSessionEventRepository creates a SessionEventRepository over the
// session_events collection.
func NewSessionEventRepository(db *mongo.Database) *SessionEventRepository {
	return &SessionEventRepository{coll: db.Collection(sessionEventsCollection)}
}

// EnsureIndexes creates the indexes used by ListRecent.
func (r *SessionEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create session event indexes: %w", err)
	}
	return nil
}

// Insert appends one event to the audit trail.
func (r *SessionEventRepository) Insert(ctx context.Context, event *domain.SessionEvent) error {
	doc := *event
	if doc.OccurredAt.IsZero() {
		doc.OccurredAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first. An empty userID lists all
// users; limit is clamped to [1, 200].
func (r *SessionEventRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.SessionEvent, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find session events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]*domain.SessionEvent, 0, limit)
	for cur.Next(ctx) {
		var ev domain.SessionEvent
		if err := cur.Decode(&ev); err != nil {
			return nil, fmt.Errorf("decode session event: %w", err)
		}
		events = append(events, &ev)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return events, nil
}

var _ ports.SessionEventRepository = (*SessionEventRepository)(nil)
