package model

import (
	"strings"
	"time"
)

// Settings is the singleton dashboard configuration: whose GitHub activity to
// show and which repositories to track.
type Settings struct {
	GitHubUsername string
	TrackedRepos   []string
	UpdatedAt      time.Time
}

// SettingsPatch carries a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	GitHubUsername *string
	TrackedRepos   *[]string
}

// ValidRepoName reports whether name has the "owner/repo" form with no
// whitespace and exactly one slash.
func ValidRepoName(name string) bool {
	if strings.ContainsAny(name, " \t\n") {
		return false
	}
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" {
		return false
	}
	return !strings.Contains(repo, "/")
}
