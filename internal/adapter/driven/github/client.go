// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// eventsPageSize is how many recent public events are scanned for push commits.
const eventsPageSize = 100

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh         *gh.Client
	token      string // Stored for GraphQL Authorization header.
	graphqlURL string // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching, in memory when cache is nil)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is set)
func NewClient(token string, cache httpcache.Cache) *Client {
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}
	cacheTransport := httpcache.NewTransport(cache)
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// FetchUserStats counts the user's repositories and the commits pushed in
// their most recent public events. Private repositories are only counted when
// the token belongs to the same user.
func (c *Client) FetchUserStats(ctx context.Context, username string) (model.UserStats, error) {
	user, err := c.lookupUser(ctx, username)
	if err != nil {
		return model.UserStats{}, err
	}

	repos := user.GetPublicRepos()
	if user.TotalPrivateRepos != nil {
		repos += int(user.GetTotalPrivateRepos())
	}

	events, resp, err := c.gh.Activity.ListEventsPerformedByUser(ctx, user.GetLogin(), true, &gh.ListOptions{PerPage: eventsPageSize})
	if err != nil {
		return model.UserStats{}, fmt.Errorf("listing events for %s: %w", username, err)
	}
	logRateLimit(resp, "events/"+username)

	return model.UserStats{
		Username: user.GetLogin(),
		Repos:    repos,
		Commits:  countPushedCommits(events),
	}, nil
}

// lookupUser prefers the authenticated user record when it matches username,
// since only that one carries private repository counts.
func (c *Client) lookupUser(ctx context.Context, username string) (*gh.User, error) {
	if c.token != "" {
		me, _, err := c.gh.Users.Get(ctx, "")
		if err == nil && strings.EqualFold(me.GetLogin(), username) {
			return me, nil
		}
		if err != nil {
			slog.Debug("github: authenticated user lookup failed", "error", err)
		}
	}

	user, resp, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", driven.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	logRateLimit(resp, "users/"+username)
	return user, nil
}

// countPushedCommits sums commits across PushEvents. Payloads without a
// commit list fall back to the reported push size.
func countPushedCommits(events []*gh.Event) int {
	total := 0
	for _, e := range events {
		if e.GetType() != "PushEvent" {
			continue
		}
		payload, err := e.ParsePayload()
		if err != nil {
			slog.Debug("github: skipping unparseable push event", "id", e.GetID(), "error", err)
			continue
		}
		push, ok := payload.(*gh.PushEvent)
		if !ok {
			continue
		}
		n := len(push.Commits)
		if n == 0 {
			n = push.GetSize()
		}
		total += n
	}
	return total
}

// FetchRepoStats retrieves stars, forks, open issues and last update time.
func (c *Client) FetchRepoStats(ctx context.Context, repoFullName string) (model.RepoStats, error) {
	owner, name, err := splitRepo(repoFullName)
	if err != nil {
		return model.RepoStats{}, err
	}

	repo, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return model.RepoStats{}, fmt.Errorf("%w: %s", driven.ErrRepoNotFound, repoFullName)
		}
		return model.RepoStats{}, fmt.Errorf("getting repository %s: %w", repoFullName, err)
	}
	logRateLimit(resp, "repos/"+repoFullName)

	return mapRepoStats(repo, owner, name), nil
}

// mapRepoStats converts a go-github Repository to domain RepoStats.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepoStats(repo *gh.Repository, owner, name string) model.RepoStats {
	stats := model.RepoStats{
		Owner:      repo.GetOwner().GetLogin(),
		Name:       repo.GetName(),
		FullName:   repo.GetFullName(),
		Stars:      repo.GetStargazersCount(),
		Forks:      repo.GetForksCount(),
		OpenIssues: repo.GetOpenIssuesCount(),
		UpdatedAt:  repo.GetUpdatedAt().Time,
		URL:        repo.GetHTMLURL(),
	}
	if stats.Owner == "" {
		stats.Owner = owner
	}
	if stats.Name == "" {
		stats.Name = name
	}
	if stats.FullName == "" {
		stats.FullName = owner + "/" + name
	}
	return stats
}

// lowRateRemaining is the point below which every call logs a warning.
const lowRateRemaining = 100

// logRateLimit records the quota left after a call to endpoint.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}
	rate := resp.Rate
	if rate.Limit > 0 && rate.Remaining < lowRateRemaining {
		slog.Warn("github rate limit low",
			"endpoint", endpoint,
			"remaining", rate.Remaining,
			"reset_in", time.Until(rate.Reset.Time).Round(time.Second),
		)
		return
	}
	slog.Debug("github api call", "endpoint", endpoint, "remaining", rate.Remaining, "limit", rate.Limit)
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

