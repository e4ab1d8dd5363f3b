package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPlanDeleteGuard(t *testing.T) {
	planRepo := &stubPlanRepo{}
	clientRepo := &stubClientRepo{}
	svc := NewPlanService(planRepo, clientRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	used, err := svc.Create(ctx, admin, PlanInput{Name: "Gold", Type: domain.PlanTypeMain, DurationDays: 30, Price: floatPtr(50)})
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}
	unused, err := svc.Create(ctx, admin, PlanInput{Name: "Silver", Type: domain.PlanTypeMain, DurationDays: 30, Price: floatPtr(30)})
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}

	clientRepo.clients = append(clientRepo.clients, domain.Client{
		ID:           primitive.NewObjectID(),
		Subscription: domain.Subscription{PlanID: used.ID, PriceAtPurchase: 50},
	})

	if err := svc.Delete(ctx, admin, used.ID); !errors.Is(err, ErrPlanInUse) {
		t.Errorf("delete referenced plan: err = %v, want ErrPlanInUse", err)
	}
	if err := svc.Delete(ctx, admin, unused.ID); err != nil {
		t.Errorf("delete unreferenced plan: unexpected error %v", err)
	}
	if len(planRepo.plans) != 1 {
		t.Errorf("catalog has %d plans after delete, want 1", len(planRepo.plans))
	}
}

func TestPlanDeleteGuardPrivateReference(t *testing.T) {
	planRepo := &stubPlanRepo{}
	clientRepo := &stubClientRepo{}
	svc := NewPlanService(planRepo, clientRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	plan, err := svc.Create(ctx, admin, PlanInput{Name: "PT-12", Type: domain.PlanTypePrivate, TotalSessions: 12, Price: floatPtr(200)})
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}

	// A private-plan reference blocks deletion as much as a main one.
	clientRepo.clients = append(clientRepo.clients, domain.Client{
		ID:          primitive.NewObjectID(),
		PrivatePlan: &domain.PrivatePlan{PlanID: plan.ID, PriceAtPurchase: 200},
	})

	if err := svc.Delete(ctx, admin, plan.ID); !errors.Is(err, ErrPlanInUse) {
		t.Errorf("err = %v, want ErrPlanInUse", err)
	}
}

func TestPlanInputValidation(t *testing.T) {
	svc := NewPlanService(&stubPlanRepo{}, &stubClientRepo{})
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	tests := []struct {
		name  string
		input PlanInput
		want  error
	}{
		{"missing name", PlanInput{Type: domain.PlanTypeMain, Price: floatPtr(50)}, ErrMissingPlanFields},
		{"missing price", PlanInput{Name: "Gold", Type: domain.PlanTypeMain}, ErrMissingPlanFields},
		{"bad type", PlanInput{Name: "Gold", Type: "weekly", Price: floatPtr(50)}, ErrInvalidPlanType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, admin, tc.input); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPlanListTypeFilter(t *testing.T) {
	planRepo := &stubPlanRepo{plans: []domain.SubscriptionPlan{
		{ID: primitive.NewObjectID(), Name: "Gold", Type: domain.PlanTypeMain, Price: 50},
		{ID: primitive.NewObjectID(), Name: "PT-12", Type: domain.PlanTypePrivate, Price: 200},
	}}
	svc := NewPlanService(planRepo, &stubClientRepo{})
	ctx := context.Background()

	// Every authenticated role may browse the catalog.
	me := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	all, err := svc.List(ctx, me, "")
	if err != nil {
		t.Fatalf("List: unexpected error %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d plans, want 2", len(all))
	}

	private, err := svc.List(ctx, me, domain.PlanTypePrivate)
	if err != nil {
		t.Fatalf("List private: unexpected error %v", err)
	}
	if len(private) != 1 || private[0].Name != "PT-12" {
		t.Errorf("private filter returned %v", private)
	}

	if _, err := svc.List(ctx, me, "weekly"); !errors.Is(err, ErrInvalidPlanType) {
		t.Errorf("err = %v, want ErrInvalidPlanType", err)
	}

	// Catalog writes stay with admins.
	if _, err := svc.Create(ctx, me, PlanInput{Name: "Gold", Type: domain.PlanTypeMain, Price: floatPtr(50)}); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("Create as client: err = %v, want ErrForbidden", err)
	}
}
