package application

import (
	"context"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

const (
	dashboardPendingTodos = 5
	dashboardRecentPosts  = 3
)

// DashboardService assembles the landing page summary from the other services.
type DashboardService struct {
	settings *SettingsService
	okr      *OKRService
	todos    *TodoService
	blog     *BlogService
	stats    *StatsService
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	settings *SettingsService,
	okr *OKRService,
	todos *TodoService,
	blog *BlogService,
	stats *StatsService,
) *DashboardService {
	return &DashboardService{settings: settings, okr: okr, todos: todos, blog: blog, stats: stats}
}

// Summary returns the dashboard as of now.
func (s *DashboardService) Summary(ctx context.Context, now time.Time) model.DashboardSummary {
	board := s.okr.Board(ctx, now)

	return model.DashboardSummary{
		Settings:     s.settings.Get(ctx),
		Stats:        s.stats.Snapshot(),
		PendingTodos: s.todos.Pending(ctx, dashboardPendingTodos),
		RecentPosts:  s.blog.Recent(ctx, dashboardRecentPosts),
		Progress:     board.Progress,
		BucketCounts: map[model.Bucket]int{
			model.BucketOverdue:  len(board.Buckets.Overdue),
			model.BucketUpcoming: len(board.Buckets.Upcoming),
			model.BucketThisWeek: len(board.Buckets.ThisWeek),
			model.BucketLater:    len(board.Buckets.Later),
		},
	}
}
