package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DuplicateKeyError reports a uniqueness-constraint violation, translated to
// the conflicting document field so handlers can name it in the response.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("a record with this %s already exists", e.Field)
}

// IncomeTotals carries the store-side subscription income sums used by the
// quick statistics.
type IncomeTotals struct {
	MainIncome    float64
	PrivateIncome float64
}

// UserRepository defines the interface for interacting with staff users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AppendDaysOff replaces the current daysOff value and appends the audit
	// entry in a single document update.
	AppendDaysOff(ctx context.Context, id primitive.ObjectID, change domain.DaysOffChange) (*domain.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	// GetByResetToken matches an unexpired reset-token digest.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	// ResetPassword sets the new hash and clears the reset-token fields.
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UserIDExists(ctx context.Context, userID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	SumCoachSalaries(ctx context.Context) (float64, error)
}

// ClientRepository defines the interface for interacting with gym members.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByPhoneAndClientID(ctx context.Context, phone, clientID string) (*domain.Client, error)
	GetAll(ctx context.Context) ([]domain.Client, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ClientIDExists(ctx context.Context, clientID string) (bool, error)
	// CountByPlanID counts clients referencing the plan through either the
	// main subscription or the private plan.
	CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
	SumSubscriptionIncome(ctx context.Context) (IncomeTotals, error)
}

// SessionRepository defines the interface for interacting with training sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetAll(ctx context.Context) ([]domain.Session, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Session, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// SetStatus updates the status field and pushes the history entry in one
	// atomic document update.
	SetStatus(ctx context.Context, id primitive.ObjectID, change domain.StatusChange) (*domain.Session, error)
	CountCompletedByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
}

// PlanRepository defines the interface for interacting with the plan catalog.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.SubscriptionPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SubscriptionPlan, error)
	// GetAll optionally filters by plan type; an empty type returns everything.
	GetAll(ctx context.Context, planType domain.PlanType) ([]domain.SubscriptionPlan, error)
	Update(ctx context.Context, plan *domain.SubscriptionPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
