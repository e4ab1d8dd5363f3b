package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType distinguishes main memberships from private training packages.
type PlanType string

const (
	PlanTypeMain    PlanType = "main"
	PlanTypePrivate PlanType = "private"
)

func (t PlanType) Valid() bool {
	return t == PlanTypeMain || t == PlanTypePrivate
}

// SubscriptionPlan is a catalog entry clients subscribe to.
type SubscriptionPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"` // Should be unique
	Type          PlanType           `bson:"type" json:"type"`
	DurationDays  int                `bson:"durationDays,omitempty" json:"durationDays,omitempty"` // main plans only
	TotalSessions int                `bson:"totalSessions" json:"totalSessions"`                   // private plans only
	Price         float64            `bson:"price" json:"price"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
