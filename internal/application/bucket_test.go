package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestClassifyDeadline(t *testing.T) {
	// Wednesday 2026-03-11, 15:30 local.
	loc := time.FixedZone("test", -5*3600)
	now := time.Date(2026, 3, 11, 15, 30, 0, 0, loc)
	day := func(d, h int) *time.Time { return ptrTime(time.Date(2026, 3, d, h, 0, 0, 0, loc)) }

	tests := []struct {
		name      string
		deadline  *time.Time
		weekStart time.Weekday
		want      model.Bucket
	}{
		{"no deadline", nil, time.Sunday, model.BucketLater},
		{"yesterday", day(10, 23), time.Sunday, model.BucketOverdue},
		{"earlier today", day(11, 1), time.Sunday, model.BucketUpcoming},
		{"later today", day(11, 23), time.Sunday, model.BucketUpcoming},
		{"tomorrow", day(12, 9), time.Sunday, model.BucketUpcoming},
		{"saturday sunday-week", day(14, 9), time.Sunday, model.BucketThisWeek},
		{"sunday sunday-week", day(15, 9), time.Sunday, model.BucketLater},
		{"sunday monday-week", day(15, 9), time.Monday, model.BucketThisWeek},
		{"next monday monday-week", day(16, 0), time.Monday, model.BucketLater},
		{"next month", day(31, 0), time.Sunday, model.BucketLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ClassifyDeadline(tt.deadline, now, tt.weekStart))
		})
	}
}

func TestClassifyDeadline_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("east", 9*3600)
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, loc)

	// 2026-03-10 20:00 UTC is already 03-11 05:00 in loc, so it is today.
	deadline := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, model.BucketUpcoming, application.ClassifyDeadline(&deadline, now, time.Sunday))
}

func TestClassifyDeadline_TomorrowOnSaturdayPrefersUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) // Saturday
	sunday := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, model.BucketUpcoming, application.ClassifyDeadline(&sunday, now, time.Sunday))
}

func TestFlattenOpenItems(t *testing.T) {
	objDeadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	objectives := []model.Objective{
		{
			ID:    "o1",
			Title: "With KRs",
			KeyResults: []model.KeyResult{
				{ID: "k1", Title: "open", Priority: model.PriorityHigh},
				{ID: "k2", Title: "done", Completed: true},
			},
		},
		{ID: "o2", Title: "Stand-in", Deadline: &objDeadline},
		{ID: "o3", Title: "Done stand-in", Completed: true},
	}

	items := application.FlattenOpenItems(objectives)
	require.Len(t, items, 2)

	assert.Equal(t, "k1", items[0].ID)
	assert.Equal(t, model.BoardItemKeyResult, items[0].Kind)
	assert.Equal(t, "o1", items[0].ObjectiveID)
	assert.Equal(t, "With KRs", items[0].ObjectiveTitle)
	assert.Equal(t, 50, items[0].ObjectiveProgress)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)

	assert.Equal(t, "o2", items[1].ID)
	assert.Equal(t, model.BoardItemObjective, items[1].Kind)
	assert.Equal(t, &objDeadline, items[1].Deadline)
	assert.Equal(t, 0, items[1].ObjectiveProgress)
}

func TestBucketItems_EachItemInExactlyOneBucket(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	objectives := []model.Objective{
		{ID: "o1", Title: "A", KeyResults: []model.KeyResult{
			{ID: "k1", Deadline: ptrTime(now.AddDate(0, 0, -3))},
			{ID: "k2", Deadline: ptrTime(now)},
			{ID: "k3", Deadline: ptrTime(now.AddDate(0, 0, 2))},
			{ID: "k4"},
		}},
	}

	b := application.BucketItems(objectives, now, time.Sunday)

	assert.Equal(t, 4, b.Len())
	require.Len(t, b.Overdue, 1)
	assert.Equal(t, "k1", b.Overdue[0].ID)
	require.Len(t, b.Upcoming, 1)
	assert.Equal(t, "k2", b.Upcoming[0].ID)
	require.Len(t, b.ThisWeek, 1)
	assert.Equal(t, "k3", b.ThisWeek[0].ID)
	require.Len(t, b.Later, 1)
	assert.Equal(t, "k4", b.Later[0].ID)
}

func TestBucketItems_EmptyBucketsAreNotNil(t *testing.T) {
	b := application.BucketItems(nil, time.Now(), time.Sunday)

	assert.NotNil(t, b.Overdue)
	assert.NotNil(t, b.Upcoming)
	assert.NotNil(t, b.ThisWeek)
	assert.NotNil(t, b.Later)
	assert.Zero(t, b.Len())
}
