package service

import (
	"context"
	"math"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"
)

const recentActivityWindow = 30 * 24 * time.Hour

type StatisticsService interface {
	Full(ctx context.Context, actor authz.Actor) (*domain.Statistics, error)
	Quick(ctx context.Context, actor authz.Actor) (*domain.QuickStats, error)
}

// statisticsService implements the StatisticsService interface.
type statisticsService struct {
	userRepo    repository.UserRepository
	clientRepo  repository.ClientRepository
	planRepo    repository.PlanRepository
	sessionRepo repository.SessionRepository
}

// NewStatisticsService creates a new instance of statisticsService.
func NewStatisticsService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	planRepo repository.PlanRepository,
	sessionRepo repository.SessionRepository,
) StatisticsService {
	return &statisticsService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
	}
}

// Full scans every collection and computes the complete rollup. Acceptable
// at gym scale; the quick variant exists for dashboards that only need the
// headline figures.
func (s *statisticsService) Full(ctx context.Context, actor authz.Actor) (*domain.Statistics, error) {
	if err := authz.Authorize(actor, authz.StatisticsRead, authz.Target{}); err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.planRepo.GetAll(ctx, "")
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := ComputeStatistics(users, clients, plans, sessions, time.Now().UTC())
	return &stats, nil
}

// Quick computes the reduced overview with store-side sums instead of
// materializing full collections.
func (s *statisticsService) Quick(ctx context.Context, actor authz.Actor) (*domain.QuickStats, error) {
	if err := authz.Authorize(actor, authz.StatisticsRead, authz.Target{}); err != nil {
		return nil, err
	}

	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	clientCount, err := s.clientRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	income, err := s.clientRepo.SumSubscriptionIncome(ctx)
	if err != nil {
		return nil, err
	}
	salaries, err := s.userRepo.SumCoachSalaries(ctx)
	if err != nil {
		return nil, err
	}

	revenue := income.MainIncome + income.PrivateIncome
	return &domain.QuickStats{
		TotalUsers:    userCount,
		TotalClients:  clientCount,
		TotalRevenue:  revenue,
		TotalSalaries: salaries,
		NetProfit:     revenue - salaries,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// ComputeStatistics derives the full cross-entity rollup from complete
// collection snapshots. It is a pure function: no store access, no
// mutation of its inputs.
func ComputeStatistics(
	users []domain.User,
	clients []domain.Client,
	plans []domain.SubscriptionPlan,
	sessions []domain.Session,
	now time.Time,
) domain.Statistics {
	var breakdown domain.UserBreakdown
	var totalSalaries float64
	coachesWithSalary := 0
	for _, user := range users {
		switch user.Role {
		case domain.RoleSuperAdmin:
			breakdown.SuperAdmins++
		case domain.RoleAdmin:
			breakdown.Admins++
		case domain.RoleCoach:
			breakdown.Coaches++
			// An unset or zero salary is not yet negotiated; it must not
			// drag the average down.
			if user.Salary != nil && *user.Salary != 0 {
				totalSalaries += *user.Salary
				coachesWithSalary++
			}
		}
	}
	breakdown.TotalStaff = breakdown.Admins + breakdown.Coaches

	var mainIncome, privateIncome float64
	clientsWithPrivatePlans := 0
	for _, client := range clients {
		mainIncome += client.Subscription.PriceAtPurchase
		if client.HasPrivatePlan() {
			clientsWithPrivatePlans++
		}
		if client.PrivatePlan != nil {
			privateIncome += client.PrivatePlan.PriceAtPurchase
		}
	}
	totalIncome := mainIncome + privateIncome

	averageSalary := 0.0
	if coachesWithSalary > 0 {
		averageSalary = math.Round(totalSalaries / float64(coachesWithSalary))
	}
	averageIncomePerClient := 0.0
	if len(clients) > 0 {
		averageIncomePerClient = math.Round(totalIncome / float64(len(clients)))
	}

	subscriptions := domain.SubscriptionStats{
		TotalPlans:              len(plans),
		ClientsWithPrivatePlans: clientsWithPrivatePlans,
		PlanUsage:               make(map[string]domain.PlanUsage, len(plans)),
	}
	for _, plan := range plans {
		switch plan.Type {
		case domain.PlanTypeMain:
			subscriptions.MainPlans++
		case domain.PlanTypePrivate:
			subscriptions.PrivatePlans++
		}

		usage := 0
		for _, client := range clients {
			if client.Subscription.PlanID == plan.ID {
				usage++
			} else if client.PrivatePlan != nil && client.PrivatePlan.PlanID == plan.ID {
				usage++
			}
		}
		subscriptions.PlanUsage[plan.Name] = domain.PlanUsage{
			PlanType: plan.Type,
			Price:    plan.Price,
			Usage:    usage,
			Revenue:  float64(usage) * plan.Price,
		}
	}

	var sessionStats domain.SessionStats
	sessionStats.TotalSessions = len(sessions)
	for _, session := range sessions {
		switch session.Status {
		case domain.SessionCompleted:
			sessionStats.CompletedSessions++
		case domain.SessionPending:
			sessionStats.PendingSessions++
		case domain.SessionCanceled:
			sessionStats.CanceledSessions++
		}
	}
	sessionStats.CompletionRate = completionPercent(sessionStats.CompletedSessions, sessionStats.TotalSessions)

	coachPerformance := make(map[string]domain.CoachPerformance)
	for _, user := range users {
		if !user.IsCoach() {
			continue
		}
		var perf domain.CoachPerformance
		for _, session := range sessions {
			if session.CoachID != user.ID {
				continue
			}
			perf.TotalSessions++
			switch session.Status {
			case domain.SessionCompleted:
				perf.CompletedSessions++
			case domain.SessionPending:
				perf.PendingSessions++
			case domain.SessionCanceled:
				perf.CanceledSessions++
			}
		}
		perf.CompletionRate = completionPercent(perf.CompletedSessions, perf.TotalSessions)
		coachPerformance[user.Name] = perf
	}

	// 30-day recency window with an inclusive boundary.
	cutoff := now.Add(-recentActivityWindow)
	var recent domain.RecentActivity
	for _, client := range clients {
		if !client.CreatedAt.Before(cutoff) {
			recent.NewClientsLast30Days++
		}
	}
	for _, session := range sessions {
		if !session.CreatedAt.Before(cutoff) {
			recent.NewSessionsLast30Days++
		}
	}

	return domain.Statistics{
		Overview: domain.Overview{
			TotalUsers:    len(users),
			TotalClients:  len(clients),
			TotalIncome:   totalIncome,
			TotalSalaries: totalSalaries,
			NetProfit:     totalIncome - totalSalaries,
		},
		UserBreakdown: breakdown,
		Financial: domain.Financial{
			TotalIncome:               totalIncome,
			MainSubscriptionIncome:    mainIncome,
			PrivateSubscriptionIncome: privateIncome,
			TotalSalaries:             totalSalaries,
			AverageSalary:             averageSalary,
			NetProfit:                 totalIncome - totalSalaries,
			AverageIncomePerClient:    averageIncomePerClient,
		},
		Subscriptions: subscriptions,
		Sessions:      sessionStats,
		Performance: domain.Performance{
			CoachPerformance: coachPerformance,
			RecentActivity:   recent,
		},
		GeneratedAt: now,
	}
}

// completionPercent is the rounded integer percentage of completed over
// total, 0 when there are no sessions.
func completionPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
