package model

import "time"

// BoardItemKind distinguishes key results from objectives standing in for
// themselves on the board.
type BoardItemKind string

const (
	BoardItemKeyResult BoardItemKind = "key_result"
	BoardItemObjective BoardItemKind = "objective"
)

// BoardItem is one open unit of work on the deadline board.
type BoardItem struct {
	ID                string
	Kind              BoardItemKind
	Title             string
	Priority          Priority
	Deadline          *time.Time
	ObjectiveID       string
	ObjectiveTitle    string
	ObjectiveProgress int
}

// Bucket is a deadline horizon on the board.
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketUpcoming Bucket = "upcoming"
	BucketThisWeek Bucket = "this_week"
	BucketLater    Bucket = "later"
)

// Buckets partitions board items by deadline horizon.
type Buckets struct {
	Overdue  []BoardItem
	Upcoming []BoardItem
	ThisWeek []BoardItem
	Later    []BoardItem
}

// Add appends item to the slice for b.
func (bs *Buckets) Add(b Bucket, item BoardItem) {
	switch b {
	case BucketOverdue:
		bs.Overdue = append(bs.Overdue, item)
	case BucketUpcoming:
		bs.Upcoming = append(bs.Upcoming, item)
	case BucketThisWeek:
		bs.ThisWeek = append(bs.ThisWeek, item)
	default:
		bs.Later = append(bs.Later, item)
	}
}

// Len returns the total number of bucketed items.
func (bs Buckets) Len() int {
	return len(bs.Overdue) + len(bs.Upcoming) + len(bs.ThisWeek) + len(bs.Later)
}

// Board is the OKR overview: open items by deadline plus overall progress.
type Board struct {
	Buckets  Buckets
	Progress Progress
}

// DashboardSummary is everything the landing page shows.
type DashboardSummary struct {
	Settings     Settings
	Stats        StatsSnapshot
	PendingTodos []Todo
	RecentPosts  []Post
	Progress     Progress
	BucketCounts map[Bucket]int
}
