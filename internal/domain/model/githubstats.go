package model

import "time"

// UserStats summarizes a GitHub user's activity.
type UserStats struct {
	Username string
	Repos    int
	Commits  int
}

// RepoStats holds the headline numbers of a tracked repository.
type RepoStats struct {
	Owner      string
	Name       string
	FullName   string
	Stars      int
	Forks      int
	OpenIssues int
	UpdatedAt  time.Time
	URL        string
}

// ContributionDay is one cell of the contribution calendar. Level is 0-4.
type ContributionDay struct {
	Date  string // YYYY-MM-DD
	Count int
	Level int
}

// ContributionCalendar is a user's yearly contribution grid, flattened to
// one entry per day in chronological order.
type ContributionCalendar struct {
	Total int
	Days  []ContributionDay
}

// ContributionLevelFromGitHub maps GitHub's ContributionLevel enum to 0-4.
// Unknown values map to 0.
func ContributionLevelFromGitHub(level string) int {
	switch level {
	case "FIRST_QUARTILE":
		return 1
	case "SECOND_QUARTILE":
		return 2
	case "THIRD_QUARTILE":
		return 3
	case "FOURTH_QUARTILE":
		return 4
	}
	return 0
}

// StatsSnapshot is the most recent background refresh of GitHub data.
// Err holds the last refresh failure, if any.
type StatsSnapshot struct {
	User        UserStats
	Repos       []RepoStats
	Calendar    ContributionCalendar
	RefreshedAt time.Time
	Err         string
}
