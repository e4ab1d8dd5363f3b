package service

import (
	"context"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the service tests.

type stubUserRepo struct {
	users []domain.User
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	user.ID = id
	r.users = append(r.users, *user)
	return id, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Phone == phone {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetAll(_ context.Context) ([]domain.User, error) {
	return r.users, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubUserRepo) AppendDaysOff(_ context.Context, id primitive.ObjectID, change domain.DaysOffChange) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].DaysOff = change.DaysOff
			r.users[i].DaysOffHistory = append(r.users[i].DaysOffHistory, change)
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].PasswordResetToken = tokenHash
			r.users[i].PasswordResetExpires = &expires
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubUserRepo) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	for i := range r.users {
		u := r.users[i]
		if u.PasswordResetToken == tokenHash && u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) ResetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].PasswordHash = passwordHash
			r.users[i].PasswordResetToken = ""
			r.users[i].PasswordResetExpires = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubUserRepo) UserIDExists(_ context.Context, userID string) (bool, error) {
	for i := range r.users {
		if r.users[i].UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) SumCoachSalaries(_ context.Context) (float64, error) {
	var sum float64
	for i := range r.users {
		if r.users[i].Role == domain.RoleCoach && r.users[i].Salary != nil {
			sum += *r.users[i].Salary
		}
	}
	return sum, nil
}

type stubClientRepo struct {
	clients []domain.Client
}

func (r *stubClientRepo) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	client.ID = id
	r.clients = append(r.clients, *client)
	return id, nil
}

func (r *stubClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	for i := range r.clients {
		if r.clients[i].ID == id {
			c := r.clients[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubClientRepo) GetByPhoneAndClientID(_ context.Context, phone, clientID string) (*domain.Client, error) {
	for i := range r.clients {
		if r.clients[i].Phone == phone && r.clients[i].ClientID == clientID {
			c := r.clients[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubClientRepo) GetAll(_ context.Context) ([]domain.Client, error) {
	return r.clients, nil
}

func (r *stubClientRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	var out []domain.Client
	for i := range r.clients {
		if r.clients[i].AssignedCoachID() == coachID {
			out = append(out, r.clients[i])
		}
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, client *domain.Client) error {
	for i := range r.clients {
		if r.clients[i].ID == client.ID {
			r.clients[i] = *client
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubClientRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.clients {
		if r.clients[i].ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubClientRepo) ClientIDExists(_ context.Context, clientID string) (bool, error) {
	for i := range r.clients {
		if r.clients[i].ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubClientRepo) CountByPlanID(_ context.Context, planID primitive.ObjectID) (int64, error) {
	var n int64
	for i := range r.clients {
		c := r.clients[i]
		if c.Subscription.PlanID == planID {
			n++
		} else if c.PrivatePlan != nil && c.PrivatePlan.PlanID == planID {
			n++
		}
	}
	return n, nil
}

func (r *stubClientRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.clients)), nil
}

func (r *stubClientRepo) SumSubscriptionIncome(_ context.Context) (repository.IncomeTotals, error) {
	var totals repository.IncomeTotals
	for i := range r.clients {
		totals.MainIncome += r.clients[i].Subscription.PriceAtPurchase
		if r.clients[i].PrivatePlan != nil {
			totals.PrivateIncome += r.clients[i].PrivatePlan.PriceAtPurchase
		}
	}
	return totals, nil
}

type stubSessionRepo struct {
	sessions []domain.Session
}

func (r *stubSessionRepo) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	session.ID = id
	r.sessions = append(r.sessions, *session)
	return id, nil
}

func (r *stubSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			s := r.sessions[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubSessionRepo) GetAll(_ context.Context) ([]domain.Session, error) {
	return r.sessions, nil
}

func (r *stubSessionRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for i := range r.sessions {
		if r.sessions[i].CoachID == coachID {
			out = append(out, r.sessions[i])
		}
	}
	return out, nil
}

func (r *stubSessionRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for i := range r.sessions {
		if r.sessions[i].ClientID == clientID {
			out = append(out, r.sessions[i])
		}
	}
	return out, nil
}

func (r *stubSessionRepo) Update(_ context.Context, session *domain.Session) error {
	for i := range r.sessions {
		if r.sessions[i].ID == session.ID {
			r.sessions[i] = *session
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubSessionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubSessionRepo) SetStatus(_ context.Context, id primitive.ObjectID, change domain.StatusChange) (*domain.Session, error) {
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Status = change.Status
			r.sessions[i].StatusChangeHistory = append(r.sessions[i].StatusChangeHistory, change)
			s := r.sessions[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubSessionRepo) CountCompletedByClient(_ context.Context, clientID primitive.ObjectID) (int64, error) {
	var n int64
	for i := range r.sessions {
		if r.sessions[i].ClientID == clientID && r.sessions[i].Status == domain.SessionCompleted {
			n++
		}
	}
	return n, nil
}

type stubPlanRepo struct {
	plans []domain.SubscriptionPlan
}

func (r *stubPlanRepo) Create(_ context.Context, plan *domain.SubscriptionPlan) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	plan.ID = id
	r.plans = append(r.plans, *plan)
	return id, nil
}

func (r *stubPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SubscriptionPlan, error) {
	for i := range r.plans {
		if r.plans[i].ID == id {
			p := r.plans[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubPlanRepo) GetAll(_ context.Context, planType domain.PlanType) ([]domain.SubscriptionPlan, error) {
	if planType == "" {
		return r.plans, nil
	}
	var out []domain.SubscriptionPlan
	for i := range r.plans {
		if r.plans[i].Type == planType {
			out = append(out, r.plans[i])
		}
	}
	return out, nil
}

func (r *stubPlanRepo) Update(_ context.Context, plan *domain.SubscriptionPlan) error {
	for i := range r.plans {
		if r.plans[i].ID == plan.ID {
			r.plans[i] = *plan
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubPlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.plans {
		if r.plans[i].ID == id {
			r.plans = append(r.plans[:i], r.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
