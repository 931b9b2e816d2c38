// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/calyptra/studio-go/internal/model"
	"github.com/calyptra/studio-go/internal/store"
)

// Snapshot limits.
const (
	recentProjectsLimit = 5
	topToolsLimit       = 10
	topPathsLimit       = 10
	topReferrersLimit   = 5
	monthsOfHistory     = 12
	rollingWindowDays   = 30
)

// ToolCount is one tools tag with its frequency across all projects.
type ToolCount struct {
	Tool  string `json:"tool"`
	Count int64  `json:"count"`
}

// ProjectAnalytics is the project slice of the snapshot.
type ProjectAnalytics struct {
	Total          int64              `json:"total"`
	CompletionRate int                `json:"completion_rate"`
	ByStatus       []store.GroupCount `json:"by_status"`
	ByImpactArea   []store.GroupCount `json:"by_impact_area"`
	ByServiceType  []store.GroupCount `json:"by_service_type"`
	ByMonth        []store.MonthCount `json:"by_month"`
	Recent         []model.Project    `json:"recent"`
	TopTools       []ToolCount        `json:"top_tools"`
}

// UserAnalytics is the user slice of the snapshot.
type UserAnalytics struct {
	Total    int64              `json:"total"`
	ByRole   []store.GroupCount `json:"by_role"`
	ByStatus []store.GroupCount `json:"by_status"`
	ByMonth  []store.MonthCount `json:"by_month"`
}

// VisitAnalytics is the page-visit slice of the snapshot.
type VisitAnalytics struct {
	Total           int64                 `json:"total"`
	UniqueVisitors  int64                 `json:"unique_visitors"`
	Today           int64                 `json:"today"`
	ThisMonth       int64                 `json:"this_month"`
	RollingDailyAvg int64                 `json:"rolling_daily_avg"`
	TopPaths        []store.PathCount     `json:"top_paths"`
	TopReferrers    []store.ReferrerCount `json:"top_referrers"`
}

// AnalyticsSnapshot is the derived read-model returned by Snapshot. It is
// never stored; every request recomputes it from current store state.
type AnalyticsSnapshot struct {
	Projects    ProjectAnalytics `json:"projects"`
	Users       UserAnalytics    `json:"users"`
	Visits      VisitAnalytics   `json:"visits"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// AnalyticsService assembles the dashboard read-model.
type AnalyticsService struct {
	queries *store.Queries
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(queries *store.Queries) *AnalyticsService {
	return &AnalyticsService{queries: queries}
}

// completionRate returns round(100 * completed / total) as an integer
// percentage, and 0 when total is 0.
func completionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// topTools counts tag frequency across all encoded tools lists and returns
// the most frequent tags, ties broken by first-seen order.
func topTools(lists []model.StringList, limit int) []ToolCount {
	counts := make(map[string]int64)
	firstSeen := make(map[string]int)
	order := 0
	for _, list := range lists {
		for _, tool := range list {
			if tool == "" {
				continue
			}
			if _, seen := counts[tool]; !seen {
				firstSeen[tool] = order
				order++
			}
			counts[tool]++
		}
	}

	out := make([]ToolCount, 0, len(counts))
	for tool, n := range counts {
		out = append(out, ToolCount{Tool: tool, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Tool] < firstSeen[out[j].Tool]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Snapshot computes the full analytics read-model. Requires
// CanViewAnalytics; read-only.
func (s *AnalyticsService) Snapshot(ctx context.Context, role model.Role) (AnalyticsSnapshot, error) {
	if err := authorize(role, CapViewAnalytics); err != nil {
		return AnalyticsSnapshot{}, err
	}

	now := time.Now()
	sinceMonth := now.AddDate(0, -(monthsOfHistory - 1), 0).Format("2006-01")
	var snap AnalyticsSnapshot
	snap.GeneratedAt = now

	// Projects
	total, err := s.queries.CountProjects(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	completed, err := s.queries.CountProjectsByStatus(ctx, model.ProjectStatusCompleted)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	byStatus, err := s.queries.GroupProjects(ctx, "status")
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	byImpact, err := s.queries.GroupProjects(ctx, "impact_area")
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	byService, err := s.queries.GroupProjects(ctx, "service_type")
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	byMonth, err := s.queries.ProjectsByMonth(ctx, sinceMonth)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	recent, err := s.queries.RecentProjects(ctx, recentProjectsLimit)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	toolLists, err := s.queries.AllProjectTools(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	snap.Projects = ProjectAnalytics{
		Total:          total,
		CompletionRate: completionRate(completed, total),
		ByStatus:       byStatus,
		ByImpactArea:   byImpact,
		ByServiceType:  byService,
		ByMonth:        byMonth,
		Recent:         recent,
		TopTools:       topTools(toolLists, topToolsLimit),
	}

	// Users
	userTotal, err := s.queries.CountUsers(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	byRole, err := s.queries.GroupUsersByRole(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	byUserStatus, err := s.queries.GroupUsersByStatus(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	usersByMonth, err := s.queries.UsersByMonth(ctx, sinceMonth)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	snap.Users = UserAnalytics{
		Total:    userTotal,
		ByRole:   byRole,
		ByStatus: byUserStatus,
		ByMonth:  usersByMonth,
	}

	// Visits
	visitTotal, err := s.queries.CountVisits(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	uniqueVisitors, err := s.queries.CountDistinctVisitors(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.queries.CountVisitsSince(ctx, startOfDay)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	thisMonth, err := s.queries.CountVisitsSince(ctx, startOfMonth)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	rolling, err := s.queries.CountVisitsSince(ctx, now.AddDate(0, 0, -rollingWindowDays))
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	topPaths, err := s.queries.TopPaths(ctx, topPathsLimit)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	topReferrers, err := s.queries.TopReferrers(ctx, topReferrersLimit)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	snap.Visits = VisitAnalytics{
		Total:           visitTotal,
		UniqueVisitors:  uniqueVisitors,
		Today:           today,
		ThisMonth:       thisMonth,
		RollingDailyAvg: int64(math.Round(float64(rolling) / rollingWindowDays)),
		TopPaths:        topPaths,
		TopReferrers:    topReferrers,
	}

	return snap, nil
}
