package application

import (
	"errors"
	"sync"

	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

var errNoGitHubClient = errors.New("no github client configured")

// GitHubClientProvider holds the GitHub client built from the active token.
// Token changes swap the client in place and bump a generation counter, so
// a refresh that started on the old token can tell its results are stale.
type GitHubClientProvider struct {
	mu         sync.RWMutex
	client     driven.GitHubClient
	generation uint64
}

// NewGitHubClientProvider creates a provider holding client, which may be nil
// until a token is resolved.
func NewGitHubClientProvider(client driven.GitHubClient) *GitHubClientProvider {
	return &GitHubClientProvider{client: client}
}

// Get returns the current client, or nil.
func (p *GitHubClientProvider) Get() driven.GitHubClient {
	client, _ := p.Current()
	return client
}

// Current returns the client together with the generation it belongs to.
func (p *GitHubClientProvider) Current() (driven.GitHubClient, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client, p.generation
}

// Generation reports how many times the client has been replaced.
func (p *GitHubClientProvider) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// Replace installs client and returns the new generation. Requests already
// running keep the client they started with.
func (p *GitHubClientProvider) Replace(client driven.GitHubClient) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
	p.generation++
	return p.generation
}
