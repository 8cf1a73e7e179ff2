package dto

// DashboardStats aggregates platform counters for the admin dashboard
type DashboardStats struct {
	UsersByRole            map[string]int64 `json:"usersByRole"`
	CompaniesByStatus      map[string]int64 `json:"companiesByStatus"`
	EventsByStatus         map[string]int64 `json:"eventsByStatus"`
	RegistrationsTotal     int64            `json:"registrationsTotal"`
	RegistrationsLast7Days int64            `json:"registrationsLast7Days"`
	UpcomingApprovedEvents int64            `json:"upcomingApprovedEvents"`
	PendingModeration      int64            `json:"pendingModeration"`
}
