package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a client's main gym membership. PriceAtPurchase is a
// snapshot of the plan price taken when the subscription was set; it must
// never be recomputed from the live plan afterwards.
type Subscription struct {
	PlanID          primitive.ObjectID `bson:"plan" json:"plan"`
	PriceAtPurchase float64            `bson:"priceAtPurchase" json:"priceAtPurchase"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
}

// PrivatePlan is an optional personal-training package with an assigned coach.
type PrivatePlan struct {
	PlanID          primitive.ObjectID   `bson:"plan,omitempty" json:"plan,omitempty"`
	CoachID         primitive.ObjectID   `bson:"coach,omitempty" json:"coach,omitempty"`
	TotalSessions   int                  `bson:"totalSessions,omitempty" json:"totalSessions,omitempty"`
	SessionIDs      []primitive.ObjectID `bson:"sessions,omitempty" json:"sessions,omitempty"`
	PriceAtPurchase float64              `bson:"priceAtPurchase,omitempty" json:"priceAtPurchase,omitempty"`
}

// Client represents a gym member.
type Client struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`           // Should be unique
	NationalID   string             `bson:"nationalId" json:"nationalId"` // Should be unique
	ClientID     string             `bson:"clientId" json:"clientId"`     // Generated, unique, immutable
	Subscription Subscription       `bson:"subscription" json:"subscription"`
	PrivatePlan  *PrivatePlan       `bson:"privatePlan,omitempty" json:"privatePlan,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasPrivatePlan reports whether the client bought a private training package.
func (c *Client) HasPrivatePlan() bool {
	return c.PrivatePlan != nil && !c.PrivatePlan.PlanID.IsZero()
}

// AssignedCoachID returns the private-plan coach, or the nil ObjectID when
// the client has no private plan.
func (c *Client) AssignedCoachID() primitive.ObjectID {
	if c.PrivatePlan == nil {
		return primitive.NilObjectID
	}
	return c.PrivatePlan.CoachID
}
