package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles. RoleClient is never stored on a User document;
// it identifies gym members authenticated through the client login flow.
const (
	RoleSuperAdmin Role = "super admin"
	RoleAdmin      Role = "admin"
	RoleCoach      Role = "coach"
	RoleClient     Role = "client"
)

// IsAdminTier reports whether the role carries administrator privileges.
func (r Role) IsAdminTier() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// IsStaff reports whether the role is valid for a User document.
func (r Role) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleCoach
}

// DaysOffChange is one entry in a coach's days-off audit log.
type DaysOffChange struct {
	DaysOff   []string           `bson:"daysOff" json:"daysOff"`
	ChangedBy primitive.ObjectID `bson:"changedBy" json:"changedBy"`
	ChangedAt time.Time          `bson:"changedAt" json:"changedAt"`
}

// User represents a staff member (super admin, admin or coach).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"` // Should be unique
	PasswordHash string             `bson:"password" json:"-"`  // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	UserID       string             `bson:"userId" json:"userId"` // Generated, unique

	// --- Coach-specific ---
	Salary         *float64        `bson:"salary,omitempty" json:"salary,omitempty"`
	DaysOff        []string        `bson:"daysOff,omitempty" json:"daysOff,omitempty"`
	DaysOffHistory []DaysOffChange `bson:"daysOffHistory,omitempty" json:"daysOffHistory,omitempty"`

	// --- Password reset ---
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}
