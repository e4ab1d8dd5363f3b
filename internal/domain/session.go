package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the training session lifecycle
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionCompleted SessionStatus = "completed"
	SessionCanceled  SessionStatus = "canceled"
)

func (s SessionStatus) Valid() bool {
	return s == SessionPending || s == SessionCompleted || s == SessionCanceled
}

// StatusChange is one entry in a session's append-only status audit log.
type StatusChange struct {
	Status    SessionStatus      `bson:"status" json:"status"`
	ChangedBy primitive.ObjectID `bson:"changedBy" json:"changedBy"`
	ChangedAt time.Time          `bson:"changedAt" json:"changedAt"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Session is one scheduled or completed training engagement between a coach
// and a client. StatusChangeHistory grows monotonically; entries are never
// removed or overwritten.
type Session struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID            primitive.ObjectID `bson:"client" json:"client"`
	CoachID             primitive.ObjectID `bson:"coach" json:"coach"`
	Date                time.Time          `bson:"date" json:"date"`
	Status              SessionStatus      `bson:"status" json:"status"`
	Notes               string             `bson:"notes,omitempty" json:"notes,omitempty"`
	StatusChangeHistory []StatusChange     `bson:"statusChangeHistory,omitempty" json:"statusChangeHistory,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
