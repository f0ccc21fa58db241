package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// githubCredentialService is the credential store key for the GitHub token.
const githubCredentialService = "github"

// ClientFactory builds a GitHub client for a token. An empty token yields an
// unauthenticated client.
type ClientFactory func(token string) driven.GitHubClient

// refresher is the slice of StatsService that settings changes poke.
type refresher interface {
	RequestRefresh()
}

// SettingsService owns the singleton settings row and the stored GitHub token.
type SettingsService struct {
	store           driven.SettingsStore
	credentials     driven.CredentialStore
	provider        *GitHubClientProvider
	newClient       ClientFactory
	envToken        string
	defaultUsername string
	stats           refresher
	logger          *slog.Logger
}

// NewSettingsService creates a SettingsService. defaultUsername seeds the row
// when it is created lazily; envToken is the fallback when no token is stored.
func NewSettingsService(
	store driven.SettingsStore,
	credentials driven.CredentialStore,
	provider *GitHubClientProvider,
	newClient ClientFactory,
	envToken string,
	defaultUsername string,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		store:           store,
		credentials:     credentials,
		provider:        provider,
		newClient:       newClient,
		envToken:        envToken,
		defaultUsername: defaultUsername,
		logger:          logger,
	}
}

// SetRefresher wires the stats refresher notified after settings change.
func (s *SettingsService) SetRefresher(r refresher) {
	s.stats = r
}

// Get returns the settings, creating the default row on first access.
// Store failures are logged and yield defaults.
func (s *SettingsService) Get(ctx context.Context) model.Settings {
	settings, err := s.store.EnsureExists(ctx, model.Settings{
		GitHubUsername: s.defaultUsername,
		TrackedRepos:   []string{},
	})
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		return model.Settings{GitHubUsername: s.defaultUsername, TrackedRepos: []string{}}
	}
	return settings
}

// Update applies patch. Tracked repos are trimmed and must be owner/repo;
// their order is kept as given.
func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	current, err := s.store.EnsureExists(ctx, model.Settings{
		GitHubUsername: s.defaultUsername,
		TrackedRepos:   []string{},
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if patch.GitHubUsername != nil {
		current.GitHubUsername = strings.TrimSpace(*patch.GitHubUsername)
	}
	if patch.TrackedRepos != nil {
		repos := make([]string, 0, len(*patch.TrackedRepos))
		for _, name := range *patch.TrackedRepos {
			name = strings.TrimSpace(name)
			if !model.ValidRepoName(name) {
				return model.Settings{}, invalidf("invalid repository %q: expected owner/repo", name)
			}
			repos = append(repos, name)
		}
		current.TrackedRepos = repos
	}

	saved, err := s.store.Save(ctx, current)
	if err != nil {
		return model.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	s.logger.Info("settings updated", "username", saved.GitHubUsername, "tracked_repos", len(saved.TrackedRepos))
	if s.stats != nil {
		s.stats.RequestRefresh()
	}
	return saved, nil
}

// ResolveToken returns the stored token, or the environment token when none
// is stored or the credential store is unavailable.
func (s *SettingsService) ResolveToken(ctx context.Context) string {
	stored, err := s.credentials.Get(ctx, githubCredentialService)
	if err != nil {
		s.logger.Debug("stored github token unavailable", "error", err)
		return s.envToken
	}
	if stored != "" {
		return stored
	}
	return s.envToken
}

// SetGitHubToken stores token encrypted and swaps in a client that uses it.
func (s *SettingsService) SetGitHubToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return invalidf("token is required")
	}
	if err := s.credentials.Set(ctx, githubCredentialService, token); err != nil {
		return fmt.Errorf("store github token: %w", err)
	}

	s.provider.Replace(s.newClient(token))
	s.logger.Info("github token updated")
	if s.stats != nil {
		s.stats.RequestRefresh()
	}
	return nil
}

// ClearGitHubToken deletes the stored token and falls back to the
// environment token.
func (s *SettingsService) ClearGitHubToken(ctx context.Context) error {
	if err := s.credentials.Delete(ctx, githubCredentialService); err != nil {
		return fmt.Errorf("delete github token: %w", err)
	}

	s.provider.Replace(s.newClient(s.envToken))
	s.logger.Info("github token cleared")
	if s.stats != nil {
		s.stats.RequestRefresh()
	}
	return nil
}

// TokenStatus reports whether the client runs on a stored token, the
// environment token, or none.
func (s *SettingsService) TokenStatus(ctx context.Context) model.TokenStatus {
	cred, ok, err := s.credentials.Stat(ctx, githubCredentialService)
	if err != nil {
		s.logger.Warn("failed to stat github token", "error", err)
	}
	// A stored token only counts when it can be decrypted.
	if ok {
		if stored, err := s.credentials.Get(ctx, githubCredentialService); err == nil && stored != "" {
			updated := cred.UpdatedAt
			return model.TokenStatus{Source: model.TokenSourceStored, UpdatedAt: &updated}
		}
	}
	if s.envToken != "" {
		return model.TokenStatus{Source: model.TokenSourceEnv}
	}
	return model.TokenStatus{Source: model.TokenSourceNone}
}
