package domain

import "time"

// Overview is the headline rollup shared by the full and quick statistics.
type Overview struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalClients  int     `json:"totalClients"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalSalaries float64 `json:"totalSalaries"`
	NetProfit     float64 `json:"netProfit"`
}

// UserBreakdown counts staff users per role.
type UserBreakdown struct {
	SuperAdmins int `json:"superAdmins"`
	Admins      int `json:"admins"`
	Coaches     int `json:"coaches"`
	TotalStaff  int `json:"totalStaff"`
}

// Financial aggregates income and salary figures.
type Financial struct {
	TotalIncome               float64 `json:"totalIncome"`
	MainSubscriptionIncome    float64 `json:"mainSubscriptionIncome"`
	PrivateSubscriptionIncome float64 `json:"privateSubscriptionIncome"`
	TotalSalaries             float64 `json:"totalSalaries"`
	AverageSalary             float64 `json:"averageSalary"`
	NetProfit                 float64 `json:"netProfit"`
	AverageIncomePerClient    float64 `json:"averageIncomePerClient"`
}

// PlanUsage describes how many clients reference one plan and the revenue
// that usage represents at the plan's current catalog price.
type PlanUsage struct {
	PlanType PlanType `json:"planType"`
	Price    float64  `json:"price"`
	Usage    int      `json:"usage"`
	Revenue  float64  `json:"revenue"`
}

// SubscriptionStats summarizes the plan catalog and its usage.
type SubscriptionStats struct {
	TotalPlans              int                  `json:"totalPlans"`
	MainPlans               int                  `json:"mainPlans"`
	PrivatePlans            int                  `json:"privatePlans"`
	ClientsWithPrivatePlans int                  `json:"clientsWithPrivatePlans"`
	PlanUsage               map[string]PlanUsage `json:"planUsage"`
}

// SessionStats counts sessions per status. CompletionRate is a rounded
// integer percentage, 0 when there are no sessions.
type SessionStats struct {
	TotalSessions     int `json:"totalSessions"`
	CompletedSessions int `json:"completedSessions"`
	PendingSessions   int `json:"pendingSessions"`
	CanceledSessions  int `json:"canceledSessions"`
	CompletionRate    int `json:"completionRate"`
}

// CoachPerformance is the per-coach session breakdown.
type CoachPerformance struct {
	TotalSessions     int `json:"totalSessions"`
	CompletedSessions int `json:"completedSessions"`
	PendingSessions   int `json:"pendingSessions"`
	CanceledSessions  int `json:"canceledSessions"`
	CompletionRate    int `json:"completionRate"`
}

// RecentActivity counts entities created inside the trailing 30-day window.
type RecentActivity struct {
	NewClientsLast30Days  int `json:"newClientsLast30Days"`
	NewSessionsLast30Days int `json:"newSessionsLast30Days"`
}

// Performance groups coach rollups with the recency counters.
type Performance struct {
	CoachPerformance map[string]CoachPerformance `json:"coachPerformance"`
	RecentActivity   RecentActivity              `json:"recentActivity"`
}

// Statistics is the full cross-entity rollup computed from complete
// collection snapshots.
type Statistics struct {
	Overview      Overview          `json:"overview"`
	UserBreakdown UserBreakdown     `json:"userBreakdown"`
	Financial     Financial         `json:"financial"`
	Subscriptions SubscriptionStats `json:"subscriptions"`
	Sessions      SessionStats      `json:"sessions"`
	Performance   Performance       `json:"performance"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}

// QuickStats is the reduced overview computed with store-side sums instead
// of full collection scans.
type QuickStats struct {
	TotalUsers    int64     `json:"totalUsers"`
	TotalClients  int64     `json:"totalClients"`
	TotalRevenue  float64   `json:"totalRevenue"`
	TotalSalaries float64   `json:"totalSalaries"`
	NetProfit     float64   `json:"netProfit"`
	GeneratedAt   time.Time `json:"generatedAt"`
}
