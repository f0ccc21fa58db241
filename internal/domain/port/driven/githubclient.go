package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// Sentinel errors returned by GitHubClient implementations.
var (
	ErrRepoNotFound  = errors.New("repository not found")
	ErrUserNotFound  = errors.New("github user not found")
	ErrTokenRequired = errors.New("github token required")
)

// GitHubClient defines the driven port for reading public GitHub statistics.
type GitHubClient interface {
	FetchUserStats(ctx context.Context, username string) (model.UserStats, error)
	// FetchRepoStats returns ErrRepoNotFound for unknown repositories.
	FetchRepoStats(ctx context.Context, repoFullName string) (model.RepoStats, error)
	// FetchContributionCalendar uses the GraphQL API and returns
	// ErrTokenRequired when the client is unauthenticated.
	FetchContributionCalendar(ctx context.Context, username string) (model.ContributionCalendar, error)
}
