package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrPlanNotFound        = ValidationError("subscription plan not found")
	ErrCoachNotFound       = ValidationError("privatePlan.coach does not reference a coach")
	ErrMissingClientFields = ValidationError("name, phone, and nationalId are required")
	ErrSubscriptionDates   = ValidationError("subscription startDate and endDate are required")
)

// SubscriptionInput references a main plan by id. Any caller-supplied price
// is ignored: priceAtPurchase is always snapshotted server-side.
type SubscriptionInput struct {
	Plan      string    `json:"plan"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// PrivatePlanInput references a private plan and its assigned coach.
// TotalSessions defaults from the plan when omitted.
type PrivatePlanInput struct {
	Plan          string `json:"plan"`
	Coach         string `json:"coach"`
	TotalSessions *int   `json:"totalSessions,omitempty"`
}

// CreateClientInput is the payload for registering a gym member.
type CreateClientInput struct {
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	NationalID   string            `json:"nationalId"`
	Subscription SubscriptionInput `json:"subscription"`
	PrivatePlan  *PrivatePlanInput `json:"privatePlan,omitempty"`
}

// UpdateClientInput carries the updatable client fields; nil means
// unchanged. The generated clientId is immutable and deliberately absent.
type UpdateClientInput struct {
	Name         *string            `json:"name,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	NationalID   *string            `json:"nationalId,omitempty"`
	Subscription *SubscriptionInput `json:"subscription,omitempty"`
	PrivatePlan  *PrivatePlanInput  `json:"privatePlan,omitempty"`
}

// SubscriptionDetails pairs a client with the derived remaining-session
// count for their private plan.
type SubscriptionDetails struct {
	Client            *domain.Client `json:"client"`
	RemainingSessions int64          `json:"remainingSessions"`
}

type ClientService interface {
	List(ctx context.Context, actor authz.Actor) ([]domain.Client, error)
	Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.Client, error)
	Create(ctx context.Context, actor authz.Actor, input CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
	Subscription(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*SubscriptionDetails, error)
	Sessions(ctx context.Context, actor authz.Actor, id primitive.ObjectID) ([]domain.Session, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo  repository.ClientRepository
	planRepo    repository.PlanRepository
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// List returns clients visible to the actor: everything for admins, only
// assigned clients for coaches.
func (s *clientService) List(ctx context.Context, actor authz.Actor) ([]domain.Client, error) {
	if err := authz.Authorize(actor, authz.ClientList, authz.Target{}); err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCoach {
		return s.clientRepo.GetByCoachID(ctx, actor.ID)
	}
	return s.clientRepo.GetAll(ctx)
}

// Get returns one client. The assigned coach and the client themself may
// read it; everyone else needs admin permissions.
func (s *clientService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: client.AssignedCoachID(), ClientID: client.ID}
	if err := authz.Authorize(actor, authz.ClientRead, target); err != nil {
		return nil, err
	}
	return client, nil
}

// Create registers a gym member, snapshotting plan prices and generating
// the unique clientId.
func (s *clientService) Create(ctx context.Context, actor authz.Actor, input CreateClientInput) (*domain.Client, error) {
	if err := authz.Authorize(actor, authz.ClientCreate, authz.Target{}); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Phone == "" || input.NationalID == "" {
		return nil, ErrMissingClientFields
	}

	subscription, err := s.resolveSubscription(ctx, input.Subscription)
	if err != nil {
		return nil, err
	}
	privatePlan, err := s.resolvePrivatePlan(ctx, input.PrivatePlan, nil)
	if err != nil {
		return nil, err
	}

	clientID, err := generateUniqueID(ctx, clientIDPrefix, input.Phone, s.clientRepo.ClientIDExists)
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		Name:         input.Name,
		Phone:        input.Phone,
		NationalID:   input.NationalID,
		ClientID:     clientID,
		Subscription: *subscription,
		PrivatePlan:  privatePlan,
	}

	id, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id
	return client, nil
}

// Update modifies a client. Plan references in the payload are re-resolved
// so priceAtPurchase is snapshotted again; untouched plans keep their
// original snapshot.
func (s *clientService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input UpdateClientInput) (*domain.Client, error) {
	if err := authz.Authorize(actor, authz.ClientUpdate, authz.Target{}); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.NationalID != nil {
		client.NationalID = *input.NationalID
	}
	if input.Subscription != nil {
		subscription, err := s.resolveSubscription(ctx, *input.Subscription)
		if err != nil {
			return nil, err
		}
		client.Subscription = *subscription
	}
	if input.PrivatePlan != nil {
		privatePlan, err := s.resolvePrivatePlan(ctx, input.PrivatePlan, client.PrivatePlan)
		if err != nil {
			return nil, err
		}
		client.PrivatePlan = privatePlan
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client.
func (s *clientService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if err := authz.Authorize(actor, authz.ClientDelete, authz.Target{}); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}

// Subscription returns the client together with the remaining private
// sessions. The count may go negative when a client is over-booked; that is
// reported as-is.
func (s *clientService) Subscription(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*SubscriptionDetails, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: client.AssignedCoachID(), ClientID: client.ID}
	if err := authz.Authorize(actor, authz.ClientSubscriptionRead, target); err != nil {
		return nil, err
	}

	details := &SubscriptionDetails{Client: client}
	if client.HasPrivatePlan() && client.PrivatePlan.TotalSessions > 0 {
		completed, err := s.sessionRepo.CountCompletedByClient(ctx, client.ID)
		if err != nil {
			return nil, err
		}
		details.RemainingSessions = int64(client.PrivatePlan.TotalSessions) - completed
	}
	return details, nil
}

// Sessions returns a client's sessions for the client, their coach, or an
// admin.
func (s *clientService) Sessions(ctx context.Context, actor authz.Actor, id primitive.ObjectID) ([]domain.Session, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: client.AssignedCoachID(), ClientID: client.ID}
	if err := authz.Authorize(actor, authz.ClientSessionsRead, target); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByClientID(ctx, client.ID)
}

// resolveSubscription looks up the referenced main plan and freezes its
// current price onto the subscription. The snapshot is authoritative and
// server-controlled; it never diverges with later catalog price changes.
func (s *clientService) resolveSubscription(ctx context.Context, input SubscriptionInput) (*domain.Subscription, error) {
	planID, err := primitive.ObjectIDFromHex(input.Plan)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, ErrSubscriptionDates
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &domain.Subscription{
		PlanID:          plan.ID,
		PriceAtPurchase: plan.Price,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	}, nil
}

// resolvePrivatePlan looks up the referenced private plan, freezes its
// price, validates the assigned coach, and defaults totalSessions from the
// plan when the payload omits it. Existing session references survive an
// update.
func (s *clientService) resolvePrivatePlan(ctx context.Context, input *PrivatePlanInput, current *domain.PrivatePlan) (*domain.PrivatePlan, error) {
	if input == nil {
		return current, nil
	}

	planID, err := primitive.ObjectIDFromHex(input.Plan)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	coachID, err := primitive.ObjectIDFromHex(input.Coach)
	if err != nil {
		return nil, ErrCoachNotFound
	}
	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrCoachNotFound
	}

	totalSessions := plan.TotalSessions
	if input.TotalSessions != nil {
		totalSessions = *input.TotalSessions
	}

	resolved := &domain.PrivatePlan{
		PlanID:          plan.ID,
		CoachID:         coach.ID,
		TotalSessions:   totalSessions,
		PriceAtPurchase: plan.Price,
	}
	if current != nil {
		resolved.SessionIDs = current.SessionIDs
	}
	return resolved, nil
}
