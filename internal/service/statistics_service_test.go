package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeStatistics(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	coachA := domain.User{ID: primitive.NewObjectID(), Name: "Mona", Role: domain.RoleCoach, Salary: floatPtr(3000)}
	coachB := domain.User{ID: primitive.NewObjectID(), Name: "Sara", Role: domain.RoleCoach}
	users := []domain.User{
		{ID: primitive.NewObjectID(), Name: "Root", Role: domain.RoleSuperAdmin},
		{ID: primitive.NewObjectID(), Name: "Desk", Role: domain.RoleAdmin},
		coachA,
		coachB,
	}

	mainPlan := domain.SubscriptionPlan{ID: primitive.NewObjectID(), Name: "Gold", Type: domain.PlanTypeMain, Price: 100}
	privatePlan := domain.SubscriptionPlan{ID: primitive.NewObjectID(), Name: "PT-10", Type: domain.PlanTypePrivate, Price: 200, TotalSessions: 10}
	plans := []domain.SubscriptionPlan{mainPlan, privatePlan}

	clients := []domain.Client{
		{
			ID:           primitive.NewObjectID(),
			Subscription: domain.Subscription{PlanID: mainPlan.ID, PriceAtPurchase: 100},
			CreatedAt:    now.AddDate(0, 0, -40),
		},
		{
			ID:           primitive.NewObjectID(),
			Subscription: domain.Subscription{PlanID: mainPlan.ID, PriceAtPurchase: 50},
			PrivatePlan: &domain.PrivatePlan{
				PlanID:          privatePlan.ID,
				CoachID:         coachA.ID,
				TotalSessions:   10,
				PriceAtPurchase: 200,
			},
			CreatedAt: now.AddDate(0, 0, -5),
		},
	}

	var sessions []domain.Session
	addSessions := func(coachID primitive.ObjectID, status domain.SessionStatus, n int, createdAt time.Time) {
		for i := 0; i < n; i++ {
			sessions = append(sessions, domain.Session{
				ID:        primitive.NewObjectID(),
				ClientID:  clients[1].ID,
				CoachID:   coachID,
				Status:    status,
				CreatedAt: createdAt,
			})
		}
	}
	addSessions(coachA.ID, domain.SessionCompleted, 3, now.AddDate(0, 0, -2))
	addSessions(coachA.ID, domain.SessionPending, 5, now.AddDate(0, 0, -1))
	addSessions(coachB.ID, domain.SessionCanceled, 2, now.AddDate(0, 0, -45))

	stats := ComputeStatistics(users, clients, plans, sessions, now)

	if stats.Overview.TotalUsers != 4 || stats.Overview.TotalClients != 2 {
		t.Errorf("overview counts = %d users, %d clients; want 4 and 2",
			stats.Overview.TotalUsers, stats.Overview.TotalClients)
	}
	if stats.UserBreakdown.SuperAdmins != 1 || stats.UserBreakdown.Admins != 1 ||
		stats.UserBreakdown.Coaches != 2 || stats.UserBreakdown.TotalStaff != 3 {
		t.Errorf("unexpected user breakdown: %+v", stats.UserBreakdown)
	}

	fin := stats.Financial
	if fin.MainSubscriptionIncome != 150 || fin.PrivateSubscriptionIncome != 200 || fin.TotalIncome != 350 {
		t.Errorf("income = %v main, %v private, %v total; want 150, 200, 350",
			fin.MainSubscriptionIncome, fin.PrivateSubscriptionIncome, fin.TotalIncome)
	}
	if fin.TotalSalaries != 3000 {
		t.Errorf("TotalSalaries = %v, want 3000", fin.TotalSalaries)
	}
	// Only the one coach with a recorded salary contributes to the average.
	if fin.AverageSalary != 3000 {
		t.Errorf("AverageSalary = %v, want 3000", fin.AverageSalary)
	}
	if fin.NetProfit != 350-3000 {
		t.Errorf("NetProfit = %v, want %v", fin.NetProfit, 350-3000)
	}
	if fin.AverageIncomePerClient != 175 {
		t.Errorf("AverageIncomePerClient = %v, want 175", fin.AverageIncomePerClient)
	}

	subs := stats.Subscriptions
	if subs.TotalPlans != 2 || subs.MainPlans != 1 || subs.PrivatePlans != 1 {
		t.Errorf("unexpected plan catalog counts: %+v", subs)
	}
	if subs.ClientsWithPrivatePlans != 1 {
		t.Errorf("ClientsWithPrivatePlans = %d, want 1", subs.ClientsWithPrivatePlans)
	}
	gold := subs.PlanUsage["Gold"]
	if gold.Usage != 2 || gold.Revenue != 200 || gold.PlanType != domain.PlanTypeMain {
		t.Errorf("Gold usage = %+v, want usage 2 revenue 200", gold)
	}
	pt := subs.PlanUsage["PT-10"]
	if pt.Usage != 1 || pt.Revenue != 200 {
		t.Errorf("PT-10 usage = %+v, want usage 1 revenue 200", pt)
	}

	sess := stats.Sessions
	if sess.TotalSessions != 10 || sess.CompletedSessions != 3 ||
		sess.PendingSessions != 5 || sess.CanceledSessions != 2 {
		t.Errorf("unexpected session counts: %+v", sess)
	}
	if sess.CompletionRate != 30 {
		t.Errorf("CompletionRate = %d, want 30", sess.CompletionRate)
	}

	monaPerf := stats.Performance.CoachPerformance["Mona"]
	if monaPerf.TotalSessions != 8 || monaPerf.CompletedSessions != 3 {
		t.Errorf("Mona performance = %+v, want 8 total, 3 completed", monaPerf)
	}
	if monaPerf.CompletionRate != 38 { // round(3/8*100)
		t.Errorf("Mona completion rate = %d, want 38", monaPerf.CompletionRate)
	}
	saraPerf := stats.Performance.CoachPerformance["Sara"]
	if saraPerf.TotalSessions != 2 || saraPerf.CompletionRate != 0 {
		t.Errorf("Sara performance = %+v, want 2 total, rate 0", saraPerf)
	}

	recent := stats.Performance.RecentActivity
	if recent.NewClientsLast30Days != 1 {
		t.Errorf("NewClientsLast30Days = %d, want 1", recent.NewClientsLast30Days)
	}
	if recent.NewSessionsLast30Days != 8 {
		t.Errorf("NewSessionsLast30Days = %d, want 8", recent.NewSessionsLast30Days)
	}
}

func TestZeroSalaryExcludedFromAverage(t *testing.T) {
	users := []domain.User{
		{ID: primitive.NewObjectID(), Name: "Mona", Role: domain.RoleCoach, Salary: floatPtr(3000)},
		{ID: primitive.NewObjectID(), Name: "Sara", Role: domain.RoleCoach, Salary: floatPtr(0)},
		{ID: primitive.NewObjectID(), Name: "Hoda", Role: domain.RoleCoach},
	}

	stats := ComputeStatistics(users, nil, nil, nil, time.Now().UTC())

	if stats.Financial.TotalSalaries != 3000 {
		t.Errorf("TotalSalaries = %v, want 3000", stats.Financial.TotalSalaries)
	}
	if stats.Financial.AverageSalary != 3000 {
		t.Errorf("AverageSalary = %v, want 3000 with zero salaries excluded", stats.Financial.AverageSalary)
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil, nil, nil, nil, time.Now().UTC())

	if stats.Sessions.CompletionRate != 0 {
		t.Errorf("CompletionRate = %d, want 0 for empty input", stats.Sessions.CompletionRate)
	}
	if stats.Financial.AverageSalary != 0 || stats.Financial.AverageIncomePerClient != 0 {
		t.Errorf("averages should be 0 for empty input, got %+v", stats.Financial)
	}
	if len(stats.Subscriptions.PlanUsage) != 0 {
		t.Errorf("PlanUsage should be empty, got %v", stats.Subscriptions.PlanUsage)
	}
}

func TestRecentActivityBoundaryInclusive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-30 * 24 * time.Hour)

	clients := []domain.Client{
		{ID: primitive.NewObjectID(), CreatedAt: cutoff},                        // exactly 30 days old
		{ID: primitive.NewObjectID(), CreatedAt: cutoff.Add(-time.Nanosecond)}, // just past the window
	}

	stats := ComputeStatistics(nil, clients, nil, nil, now)
	if stats.Performance.RecentActivity.NewClientsLast30Days != 1 {
		t.Errorf("NewClientsLast30Days = %d, want 1 (boundary is inclusive)",
			stats.Performance.RecentActivity.NewClientsLast30Days)
	}
}

func TestStatisticsSuperAdminOnly(t *testing.T) {
	svc := NewStatisticsService(&stubUserRepo{}, &stubClientRepo{}, &stubPlanRepo{}, &stubSessionRepo{})
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleCoach, domain.RoleClient} {
		actor := authz.Actor{ID: primitive.NewObjectID(), Role: role}
		if _, err := svc.Full(ctx, actor); !errors.Is(err, authz.ErrForbidden) {
			t.Errorf("Full as %s: err = %v, want ErrForbidden", role, err)
		}
		if _, err := svc.Quick(ctx, actor); !errors.Is(err, authz.ErrForbidden) {
			t.Errorf("Quick as %s: err = %v, want ErrForbidden", role, err)
		}
	}

	super := authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleSuperAdmin}
	if _, err := svc.Full(ctx, super); err != nil {
		t.Errorf("Full as super admin: unexpected error %v", err)
	}
}

func TestQuickStats(t *testing.T) {
	userRepo := &stubUserRepo{users: []domain.User{
		{ID: primitive.NewObjectID(), Role: domain.RoleSuperAdmin},
		{ID: primitive.NewObjectID(), Role: domain.RoleCoach, Salary: floatPtr(2500)},
	}}
	clientRepo := &stubClientRepo{clients: []domain.Client{
		{
			ID:           primitive.NewObjectID(),
			Subscription: domain.Subscription{PriceAtPurchase: 120},
			PrivatePlan:  &domain.PrivatePlan{PlanID: primitive.NewObjectID(), PriceAtPurchase: 300},
		},
	}}
	svc := NewStatisticsService(userRepo, clientRepo, &stubPlanRepo{}, &stubSessionRepo{})

	quick, err := svc.Quick(context.Background(), authz.Actor{ID: primitive.NewObjectID(), Role: domain.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("Quick: unexpected error %v", err)
	}
	if quick.TotalUsers != 2 || quick.TotalClients != 1 {
		t.Errorf("counts = %d users, %d clients; want 2 and 1", quick.TotalUsers, quick.TotalClients)
	}
	if quick.TotalRevenue != 420 {
		t.Errorf("TotalRevenue = %v, want 420", quick.TotalRevenue)
	}
	if quick.TotalSalaries != 2500 {
		t.Errorf("TotalSalaries = %v, want 2500", quick.TotalSalaries)
	}
	if quick.NetProfit != 420-2500 {
		t.Errorf("NetProfit = %v, want %v", quick.NetProfit, 420-2500)
	}
}
