package application

import (
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// FlattenOpenItems turns objectives into board items: one per key result,
// carrying its objective's title and progress. An objective without key
// results stands in for itself. Completed items are dropped.
func FlattenOpenItems(objectives []model.Objective) []model.BoardItem {
	var items []model.BoardItem
	for _, o := range objectives {
		progress := o.Progress()

		if len(o.KeyResults) == 0 {
			if o.Completed {
				continue
			}
			items = append(items, model.BoardItem{
				ID:                o.ID,
				Kind:              model.BoardItemObjective,
				Title:             o.Title,
				Priority:          model.PriorityMedium,
				Deadline:          o.Deadline,
				ObjectiveID:       o.ID,
				ObjectiveTitle:    o.Title,
				ObjectiveProgress: progress,
			})
			continue
		}

		for _, kr := range o.KeyResults {
			if kr.Completed {
				continue
			}
			items = append(items, model.BoardItem{
				ID:                kr.ID,
				Kind:              model.BoardItemKeyResult,
				Title:             kr.Title,
				Priority:          kr.Priority,
				Deadline:          kr.Deadline,
				ObjectiveID:       o.ID,
				ObjectiveTitle:    o.Title,
				ObjectiveProgress: progress,
			})
		}
	}
	return items
}

// ClassifyDeadline places a deadline into exactly one bucket relative to now,
// using now's location for calendar days. Checks run in precedence order:
// overdue (before today), upcoming (today or tomorrow), this week (within
// the calendar week starting on weekStart), later (everything else,
// including no deadline).
func ClassifyDeadline(deadline *time.Time, now time.Time, weekStart time.Weekday) model.Bucket {
	if deadline == nil {
		return model.BucketLater
	}

	loc := now.Location()
	d := deadline.In(loc)
	today := startOfDay(now)

	if d.Before(today) {
		return model.BucketOverdue
	}
	if d.Before(today.AddDate(0, 0, 2)) {
		return model.BucketUpcoming
	}

	offset := (int(today.Weekday()) - int(weekStart) + 7) % 7
	weekBegin := today.AddDate(0, 0, -offset)
	if d.Before(weekBegin.AddDate(0, 0, 7)) {
		return model.BucketThisWeek
	}
	return model.BucketLater
}

// BucketItems flattens objectives and partitions the open items by deadline.
// Items keep their flattened order within a bucket.
func BucketItems(objectives []model.Objective, now time.Time, weekStart time.Weekday) model.Buckets {
	buckets := model.Buckets{
		Overdue:  []model.BoardItem{},
		Upcoming: []model.BoardItem{},
		ThisWeek: []model.BoardItem{},
		Later:    []model.BoardItem{},
	}
	for _, item := range FlattenOpenItems(objectives) {
		buckets.Add(ClassifyDeadline(item.Deadline, now, weekStart), item)
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
