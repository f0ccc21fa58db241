package application_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	logger := discardLogger()

	provider := application.NewGitHubClientProvider(&mockGitHubClient{})
	settings := application.NewSettingsService(&mockSettingsStore{}, newMockCredentialStore(), provider, nil, "", "octocat", logger)
	okr := application.NewOKRService(newMockObjectiveStore(), time.Sunday, logger)
	todos := application.NewTodoService(newMockTodoStore(), logger)
	blog := application.NewBlogService(newMockPostStore(), logger)
	stats := application.NewStatsService(provider, settings, cron.Every(time.Hour), logger)
	svc := application.NewDashboardService(settings, okr, todos, blog, stats)

	for i := range 7 {
		_, err := todos.Create(ctx, application.NewTodo{Content: fmt.Sprintf("todo %d", i)})
		require.NoError(t, err)
	}
	for i := range 4 {
		_, err := blog.Upsert(ctx, model.Post{
			Slug:  fmt.Sprintf("post-%d", i),
			Title: "Post",
			Date:  now.AddDate(0, 0, -i),
		})
		require.NoError(t, err)
	}

	o, err := okr.CreateObjective(ctx, application.NewObjective{Title: "Goal"})
	require.NoError(t, err)
	late := now.AddDate(0, 0, -2)
	_, err = okr.CreateKeyResult(ctx, o.ID, application.NewKeyResult{Title: "late", Deadline: &late})
	require.NoError(t, err)
	done, err := okr.CreateKeyResult(ctx, o.ID, application.NewKeyResult{Title: "done"})
	require.NoError(t, err)
	_, err = okr.ToggleKeyResult(ctx, done.ID)
	require.NoError(t, err)

	summary := svc.Summary(ctx, now)

	assert.Equal(t, "octocat", summary.Settings.GitHubUsername)
	assert.Len(t, summary.PendingTodos, 5)
	assert.Equal(t, "todo 6", summary.PendingTodos[0].Content)
	require.Len(t, summary.RecentPosts, 3)
	assert.Equal(t, "post-0", summary.RecentPosts[0].Slug)
	assert.Equal(t, model.Progress{Percent: 50, Completed: 1, Total: 2}, summary.Progress)
	assert.Equal(t, map[model.Bucket]int{
		model.BucketOverdue:  1,
		model.BucketUpcoming: 0,
		model.BucketThisWeek: 0,
		model.BucketLater:    0,
	}, summary.BucketCounts)
	assert.NotNil(t, summary.Stats.Repos)
}
