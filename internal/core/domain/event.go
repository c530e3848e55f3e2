package domain

import "time"

// SessionEventKind classifies a session lifecycle transition.
type SessionEventKind string

const (
	EventSignedIn        SessionEventKind = "signed_in"
	EventSignedOut       SessionEventKind = "signed_out"
	EventForcedSignOut   SessionEventKind = "forced_sign_out"
	EventSessionRestored SessionEventKind = "session_restored"
	EventSessionRejected SessionEventKind = "session_rejected"
)

// SessionEvent records one lifecycle transition of a client instance for
// the session audit trail.
type SessionEvent struct {
	ClientID   string           `json:"client_id" bson:"client_id"`
	UserID     string           `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email      string           `json:"email,omitempty" bson:"email,omitempty"`
	Role       Role             `json:"role,omitempty" bson:"role,omitempty"`
	Kind       SessionEventKind `json:"kind" bson:"kind"`
	Reason     string           `json:"reason,omitempty" bson:"reason,omitempty"`
	OccurredAt time.Time        `json:"occurred_at" bson:"occurred_at"`
}
