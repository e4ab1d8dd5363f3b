package service

import (
	"context"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanInUse         = ValidationError("cannot delete subscription plan: it is currently being used by clients")
	ErrInvalidPlanType   = ValidationError("plan type must be main or private")
	ErrMissingPlanFields = ValidationError("plan name, type, and price are required")
)

// PlanInput is the payload for creating or updating a catalog plan.
type PlanInput struct {
	Name          string          `json:"name"`
	Type          domain.PlanType `json:"type"`
	DurationDays  int             `json:"durationDays,omitempty"`
	TotalSessions int             `json:"totalSessions,omitempty"`
	Price         *float64        `json:"price"`
	Description   string          `json:"description,omitempty"`
}

type PlanService interface {
	List(ctx context.Context, actor authz.Actor, planType domain.PlanType) ([]domain.SubscriptionPlan, error)
	Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.SubscriptionPlan, error)
	Create(ctx context.Context, actor authz.Actor, input PlanInput) (*domain.SubscriptionPlan, error)
	Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input PlanInput) (*domain.SubscriptionPlan, error)
	Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
}

// planService implements the PlanService interface.
type planService struct {
	planRepo   repository.PlanRepository
	clientRepo repository.ClientRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, clientRepo repository.ClientRepository) PlanService {
	return &planService{
		planRepo:   planRepo,
		clientRepo: clientRepo,
	}
}

// List returns the catalog, optionally filtered by type. Every
// authenticated actor may browse plans.
func (s *planService) List(ctx context.Context, actor authz.Actor, planType domain.PlanType) ([]domain.SubscriptionPlan, error) {
	if err := authz.Authorize(actor, authz.PlanList, authz.Target{}); err != nil {
		return nil, err
	}
	if planType != "" && !planType.Valid() {
		return nil, ErrInvalidPlanType
	}
	return s.planRepo.GetAll(ctx, planType)
}

// Get returns one plan.
func (s *planService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.SubscriptionPlan, error) {
	if err := authz.Authorize(actor, authz.PlanRead, authz.Target{}); err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, id)
}

// Create adds a plan to the catalog.
func (s *planService) Create(ctx context.Context, actor authz.Actor, input PlanInput) (*domain.SubscriptionPlan, error) {
	if err := authz.Authorize(actor, authz.PlanCreate, authz.Target{}); err != nil {
		return nil, err
	}
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	plan := &domain.SubscriptionPlan{
		Name:          input.Name,
		Type:          input.Type,
		DurationDays:  input.DurationDays,
		TotalSessions: input.TotalSessions,
		Price:         *input.Price,
		Description:   input.Description,
	}
	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

// Update edits a catalog plan. Existing clients keep their frozen
// priceAtPurchase regardless of the new price.
func (s *planService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input PlanInput) (*domain.SubscriptionPlan, error) {
	if err := authz.Authorize(actor, authz.PlanUpdate, authz.Target{}); err != nil {
		return nil, err
	}
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Name = input.Name
	plan.Type = input.Type
	plan.DurationDays = input.DurationDays
	plan.TotalSessions = input.TotalSessions
	plan.Price = *input.Price
	plan.Description = input.Description

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes a plan unless any client still references it through the
// main subscription or the private plan.
func (s *planService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if err := authz.Authorize(actor, authz.PlanDelete, authz.Target{}); err != nil {
		return err
	}

	inUse, err := s.clientRepo.CountByPlanID(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrPlanInUse
	}
	return s.planRepo.Delete(ctx, id)
}

func validatePlanInput(input PlanInput) error {
	if input.Name == "" || input.Type == "" || input.Price == nil {
		return ErrMissingPlanFields
	}
	if !input.Type.Valid() {
		return ErrInvalidPlanType
	}
	return nil
}
