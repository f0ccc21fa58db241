package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// maxConcurrentRepoFetches bounds parallel repository lookups.
const maxConcurrentRepoFetches = 4

// settingsSource is the slice of SettingsService the refresher reads.
type settingsSource interface {
	Get(ctx context.Context) model.Settings
}

// StatsService serves GitHub statistics on demand and keeps a snapshot of
// the configured user and tracked repositories refreshed on a cron schedule.
type StatsService struct {
	provider *GitHubClientProvider
	settings settingsSource
	schedule cron.Schedule
	logger   *slog.Logger

	refreshCh chan chan error
	pokeCh    chan struct{}

	mu       sync.RWMutex
	snapshot model.StatsSnapshot
}

// NewStatsService creates a StatsService. schedule decides when the
// background refresher runs after its initial refresh.
func NewStatsService(
	provider *GitHubClientProvider,
	settings settingsSource,
	schedule cron.Schedule,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		provider:  provider,
		settings:  settings,
		schedule:  schedule,
		logger:    logger,
		refreshCh: make(chan chan error),
		pokeCh:    make(chan struct{}, 1),
		snapshot: model.StatsSnapshot{
			Repos:    []model.RepoStats{},
			Calendar: model.ContributionCalendar{Days: []model.ContributionDay{}},
		},
	}
}

// Start runs an immediate refresh, then refreshes at every schedule fire and
// on manual requests. Start blocks until ctx is canceled. A schedule that
// never fires leaves only manual refreshes.
func (s *StatsService) Start(ctx context.Context) {
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("initial stats refresh failed", "error", err)
	}

	var timer *time.Timer
	arm := func() <-chan time.Time {
		next := s.schedule.Next(time.Now())
		if next.IsZero() {
			s.logger.Warn("refresh schedule never fires, scheduled refreshes disabled")
			return nil
		}
		if timer == nil {
			timer = time.NewTimer(time.Until(next))
		} else {
			timer.Reset(time.Until(next))
		}
		return timer.C
	}
	tick := arm()
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stats refresher stopped")
			return
		case <-tick:
			if err := s.refresh(ctx); err != nil {
				s.logger.Error("stats refresh failed", "error", err)
			}
			tick = arm()
		case <-s.pokeCh:
			if err := s.refresh(ctx); err != nil {
				s.logger.Error("requested stats refresh failed", "error", err)
			}
		case done := <-s.refreshCh:
			done <- s.refresh(ctx)
		}
	}
}

// Refresh asks the running refresher for an immediate refresh and blocks
// until it completes or ctx is canceled.
func (s *StatsService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- done:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestRefresh schedules a refresh without waiting. Requests made while
// one is already pending are coalesced.
func (s *StatsService) RequestRefresh() {
	select {
	case s.pokeCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest refreshed statistics.
func (s *StatsService) Snapshot() model.StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// refresh rebuilds the snapshot from the current settings. Partial failures
// are recorded in the snapshot's Err; only a missing client is returned.
func (s *StatsService) refresh(ctx context.Context) error {
	start := time.Now()
	settings := s.settings.Get(ctx)

	next := model.StatsSnapshot{
		User:     model.UserStats{Username: settings.GitHubUsername},
		Repos:    []model.RepoStats{},
		Calendar: model.ContributionCalendar{Days: []model.ContributionDay{}},
	}

	client, generation := s.provider.Current()
	if client == nil {
		return errNoGitHubClient
	}

	var failures []string
	if settings.GitHubUsername != "" {
		user, err := client.FetchUserStats(ctx, settings.GitHubUsername)
		if err != nil {
			failures = append(failures, fmt.Sprintf("user stats: %v", err))
		} else {
			next.User = user
		}

		cal, err := client.FetchContributionCalendar(ctx, settings.GitHubUsername)
		switch {
		case errors.Is(err, driven.ErrTokenRequired):
			s.logger.Debug("contribution calendar skipped", "reason", err)
		case err != nil:
			failures = append(failures, fmt.Sprintf("calendar: %v", err))
		default:
			next.Calendar = cal
		}
	}

	next.Repos = s.trackedRepoStats(ctx, client, settings.TrackedRepos)
	if len(next.Repos) < len(settings.TrackedRepos) {
		failures = append(failures, fmt.Sprintf("%d of %d tracked repos failed",
			len(settings.TrackedRepos)-len(next.Repos), len(settings.TrackedRepos)))
	}

	next.RefreshedAt = time.Now().UTC()
	next.Err = strings.Join(failures, "; ")

	// A token swap mid-refresh queues another refresh; keep the old
	// snapshot rather than publish numbers fetched with the previous token.
	if s.provider.Generation() != generation {
		s.logger.Info("stale stats refresh discarded", "generation", generation)
		return nil
	}

	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()

	s.logger.Info("stats refreshed",
		"username", settings.GitHubUsername,
		"repos", len(next.Repos),
		"errors", len(failures),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// UserStats returns the user's stats, or zero stats when the username is
// empty or the lookup fails.
func (s *StatsService) UserStats(ctx context.Context, username string) model.UserStats {
	zero := model.UserStats{Username: username}
	if username == "" {
		return zero
	}
	client := s.provider.Get()
	if client == nil {
		return zero
	}

	stats, err := client.FetchUserStats(ctx, username)
	if err != nil {
		s.logger.Warn("failed to fetch user stats", "username", username, "error", err)
		return zero
	}
	return stats
}

// RepoStats returns stats for owner/repo. Unknown repositories yield
// driven.ErrRepoNotFound.
func (s *StatsService) RepoStats(ctx context.Context, fullName string) (model.RepoStats, error) {
	if !model.ValidRepoName(fullName) {
		return model.RepoStats{}, invalidf("invalid repository %q: expected owner/repo", fullName)
	}
	client := s.provider.Get()
	if client == nil {
		return model.RepoStats{}, errNoGitHubClient
	}
	return client.FetchRepoStats(ctx, fullName)
}

// Calendar returns the user's contribution calendar.
func (s *StatsService) Calendar(ctx context.Context, username string) (model.ContributionCalendar, error) {
	if username == "" {
		return model.ContributionCalendar{}, invalidf("username is required")
	}
	client := s.provider.Get()
	if client == nil {
		return model.ContributionCalendar{}, errNoGitHubClient
	}
	return client.FetchContributionCalendar(ctx, username)
}

// TrackedRepoStats fetches every repository concurrently and returns the
// ones that succeeded, in input order.
func (s *StatsService) TrackedRepoStats(ctx context.Context, repos []string) []model.RepoStats {
	return s.trackedRepoStats(ctx, s.provider.Get(), repos)
}

func (s *StatsService) trackedRepoStats(ctx context.Context, client driven.GitHubClient, repos []string) []model.RepoStats {
	if client == nil || len(repos) == 0 {
		return []model.RepoStats{}
	}

	results := make([]*model.RepoStats, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRepoFetches)

	for i, name := range repos {
		g.Go(func() error {
			stats, err := client.FetchRepoStats(gctx, name)
			if err != nil {
				s.logger.Warn("failed to fetch repo stats", "repo", name, "error", err)
				return nil
			}
			results[i] = &stats
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.RepoStats, 0, len(repos))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
