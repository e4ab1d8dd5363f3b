package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newClientFixture() (*stubClientRepo, *stubPlanRepo, *stubUserRepo, *stubSessionRepo, domain.SubscriptionPlan, domain.SubscriptionPlan, domain.User) {
	mainPlan := domain.SubscriptionPlan{
		ID:           primitive.NewObjectID(),
		Name:         "Gold",
		Type:         domain.PlanTypeMain,
		DurationDays: 30,
		Price:        50,
	}
	privatePlan := domain.SubscriptionPlan{
		ID:            primitive.NewObjectID(),
		Name:          "PT-12",
		Type:          domain.PlanTypePrivate,
		TotalSessions: 12,
		Price:         200,
	}
	coach := domain.User{ID: primitive.NewObjectID(), Name: "Mona", Role: domain.RoleCoach}

	return &stubClientRepo{},
		&stubPlanRepo{plans: []domain.SubscriptionPlan{mainPlan, privatePlan}},
		&stubUserRepo{users: []domain.User{coach}},
		&stubSessionRepo{},
		mainPlan, privatePlan, coach
}

func TestClientCreateSnapshotsPrice(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, mainPlan, _, _ := newClientFixture()
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	client, err := svc.Create(context.Background(), admin, CreateClientInput{
		Name:       "Laila",
		Phone:      "01234567890",
		NationalID: "29901011234567",
		Subscription: SubscriptionInput{
			Plan:      mainPlan.ID.Hex(),
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 1, 0),
		},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}

	if client.Subscription.PriceAtPurchase != 50 {
		t.Errorf("PriceAtPurchase = %v, want the live plan price 50", client.Subscription.PriceAtPurchase)
	}
	if !strings.HasPrefix(client.ClientID, "CL890") {
		t.Errorf("ClientID = %q, want CL890 prefix from the phone suffix", client.ClientID)
	}
	if len(client.ClientID) != 7 {
		t.Errorf("ClientID length = %d, want 7", len(client.ClientID))
	}
}

func TestClientCreatePrivatePlanDefaults(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, mainPlan, privatePlan, coach := newClientFixture()
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	input := CreateClientInput{
		Name:       "Laila",
		Phone:      "01234567890",
		NationalID: "29901011234567",
		Subscription: SubscriptionInput{
			Plan:      mainPlan.ID.Hex(),
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 1, 0),
		},
		PrivatePlan: &PrivatePlanInput{
			Plan:  privatePlan.ID.Hex(),
			Coach: coach.ID.Hex(),
		},
	}

	client, err := svc.Create(context.Background(), admin, input)
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}
	if client.PrivatePlan == nil {
		t.Fatal("PrivatePlan is nil")
	}
	// TotalSessions falls back to the plan when the payload omits it.
	if client.PrivatePlan.TotalSessions != 12 {
		t.Errorf("TotalSessions = %d, want plan default 12", client.PrivatePlan.TotalSessions)
	}
	if client.PrivatePlan.PriceAtPurchase != 200 {
		t.Errorf("PriceAtPurchase = %v, want snapshot 200", client.PrivatePlan.PriceAtPurchase)
	}
	if client.PrivatePlan.CoachID != coach.ID {
		t.Errorf("CoachID = %s, want %s", client.PrivatePlan.CoachID.Hex(), coach.ID.Hex())
	}

	// An explicit totalSessions wins over the plan default.
	input.PrivatePlan.TotalSessions = intPtr(8)
	client, err = svc.Create(context.Background(), admin, input)
	if err != nil {
		t.Fatalf("Create with explicit totalSessions: unexpected error %v", err)
	}
	if client.PrivatePlan.TotalSessions != 8 {
		t.Errorf("TotalSessions = %d, want 8", client.PrivatePlan.TotalSessions)
	}
}

func TestClientCreateRejectsNonCoach(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, mainPlan, privatePlan, _ := newClientFixture()
	adminUser := domain.User{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	userRepo.users = append(userRepo.users, adminUser)
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	_, err := svc.Create(context.Background(), admin, CreateClientInput{
		Name:       "Laila",
		Phone:      "01234567890",
		NationalID: "29901011234567",
		Subscription: SubscriptionInput{
			Plan:      mainPlan.ID.Hex(),
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 1, 0),
		},
		PrivatePlan: &PrivatePlanInput{
			Plan:  privatePlan.ID.Hex(),
			Coach: adminUser.ID.Hex(),
		},
	})
	if !errors.Is(err, ErrCoachNotFound) {
		t.Errorf("err = %v, want ErrCoachNotFound for a non-coach reference", err)
	}
}

func TestClientUpdateResnapshotsPrice(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, mainPlan, _, _ := newClientFixture()
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	client, err := svc.Create(ctx, admin, CreateClientInput{
		Name:       "Laila",
		Phone:      "01234567890",
		NationalID: "29901011234567",
		Subscription: SubscriptionInput{
			Plan:      mainPlan.ID.Hex(),
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 1, 0),
		},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}

	// Raise the catalog price. The existing snapshot must not move on
	// unrelated updates.
	planRepo.plans[0].Price = 80
	updated, err := svc.Update(ctx, admin, client.ID, UpdateClientInput{Name: strPtr("Laila M")})
	if err != nil {
		t.Fatalf("Update: unexpected error %v", err)
	}
	if updated.Subscription.PriceAtPurchase != 50 {
		t.Errorf("PriceAtPurchase = %v after name change, want original snapshot 50", updated.Subscription.PriceAtPurchase)
	}
	if updated.ClientID != client.ClientID {
		t.Errorf("ClientID changed on update: %q -> %q", client.ClientID, updated.ClientID)
	}

	// Re-submitting the subscription re-resolves the plan and freezes the
	// new price.
	updated, err = svc.Update(ctx, admin, client.ID, UpdateClientInput{
		Subscription: &SubscriptionInput{
			Plan:      mainPlan.ID.Hex(),
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 1, 0),
		},
	})
	if err != nil {
		t.Fatalf("Update subscription: unexpected error %v", err)
	}
	if updated.Subscription.PriceAtPurchase != 80 {
		t.Errorf("PriceAtPurchase = %v after re-subscription, want 80", updated.Subscription.PriceAtPurchase)
	}
}

func TestClientSubscriptionRemaining(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, mainPlan, privatePlan, coach := newClientFixture()
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	admin := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	client, err := svc.Create(ctx, admin, CreateClientInput{
		Name:       "Laila",
		Phone:      "01234567890",
		NationalID: "29901011234567",
		Subscription: SubscriptionInput{
			Plan:      mainPlan.ID.Hex(),
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 1, 0),
		},
		PrivatePlan: &PrivatePlanInput{
			Plan:          privatePlan.ID.Hex(),
			Coach:         coach.ID.Hex(),
			TotalSessions: intPtr(5),
		},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error %v", err)
	}

	for i := 0; i < 7; i++ {
		sessionRepo.sessions = append(sessionRepo.sessions, domain.Session{
			ID:       primitive.NewObjectID(),
			ClientID: client.ID,
			CoachID:  coach.ID,
			Status:   domain.SessionCompleted,
		})
	}

	details, err := svc.Subscription(ctx, admin, client.ID)
	if err != nil {
		t.Fatalf("Subscription: unexpected error %v", err)
	}
	// Over-booked clients go negative; the count is reported as-is.
	if details.RemainingSessions != -2 {
		t.Errorf("RemainingSessions = %d, want -2", details.RemainingSessions)
	}
}

func TestClientOwnershipChecks(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, _, _, coach := newClientFixture()
	client := domain.Client{
		ID:          primitive.NewObjectID(),
		Name:        "Laila",
		PrivatePlan: &domain.PrivatePlan{PlanID: primitive.NewObjectID(), CoachID: coach.ID},
	}
	clientRepo.clients = append(clientRepo.clients, client)
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, authz.Actor{ID: coach.ID, Role: domain.RoleCoach}, client.ID); err != nil {
		t.Errorf("Get as assigned coach: unexpected error %v", err)
	}
	if _, err := svc.Get(ctx, authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleCoach}, client.ID); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("Get as other coach: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, authz.Actor{ID: client.ID, Role: domain.RoleClient}, client.ID); err != nil {
		t.Errorf("Get as the client themself: unexpected error %v", err)
	}

	// Coaches read; only admins write.
	if _, err := svc.Update(ctx, authz.Actor{ID: coach.ID, Role: domain.RoleCoach}, client.ID, UpdateClientInput{
		Name: strPtr("renamed"),
	}); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("Update as coach: err = %v, want ErrForbidden", err)
	}
}

func TestClientListCoachScoped(t *testing.T) {
	clientRepo, planRepo, userRepo, sessionRepo, _, _, coach := newClientFixture()
	clientRepo.clients = []domain.Client{
		{ID: primitive.NewObjectID(), PrivatePlan: &domain.PrivatePlan{PlanID: primitive.NewObjectID(), CoachID: coach.ID}},
		{ID: primitive.NewObjectID()},
	}
	svc := NewClientService(clientRepo, planRepo, userRepo, sessionRepo)
	ctx := context.Background()

	mine, err := svc.List(ctx, authz.Actor{ID: coach.ID, Role: domain.RoleCoach})
	if err != nil {
		t.Fatalf("List as coach: unexpected error %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("coach sees %d clients, want only the assigned 1", len(mine))
	}

	all, err := svc.List(ctx, authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("List as admin: unexpected error %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d clients, want 2", len(all))
	}
}
