package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ghAdapter "github.com/ericfisherdev/mydashboard/internal/adapter/driven/github"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler, token string) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/", token)
	require.NoError(t, err)

	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pushEvent(id string, commits int) map[string]any {
	list := make([]any, commits)
	for i := range list {
		list[i] = map[string]any{"sha": id, "message": "commit"}
	}
	return map[string]any{
		"id":      id,
		"type":    "PushEvent",
		"payload": map[string]any{"size": commits, "commits": list},
	}
}

func TestFetchUserStats_PublicUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat", "public_repos": 8})
	})
	mux.HandleFunc("GET /users/octocat/events/public", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		writeJSON(w, http.StatusOK, []any{
			pushEvent("1", 3),
			map[string]any{"id": "2", "type": "WatchEvent", "payload": map[string]any{"action": "started"}},
			pushEvent("3", 2),
		})
	})

	client := newTestClient(t, mux, "")
	stats, err := client.FetchUserStats(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, "octocat", stats.Username)
	assert.Equal(t, 8, stats.Repos)
	assert.Equal(t, 5, stats.Commits)
}

func TestFetchUserStats_AuthenticatedUserCountsPrivateRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"login": "Octocat", "public_repos": 8, "total_private_repos": 4})
	})
	mux.HandleFunc("GET /users/octocat", func(w http.ResponseWriter, r *http.Request) {
		t.Error("public profile should not be fetched for the authenticated user")
	})
	mux.HandleFunc("GET /users/Octocat/events/public", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})

	client := newTestClient(t, mux, "test-token")
	stats, err := client.FetchUserStats(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, 12, stats.Repos)
	assert.Equal(t, 0, stats.Commits)
}

func TestFetchUserStats_OtherUserWithToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "me", "public_repos": 1, "total_private_repos": 50})
	})
	mux.HandleFunc("GET /users/vercel", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "vercel", "public_repos": 200})
	})
	mux.HandleFunc("GET /users/vercel/events/public", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{pushEvent("9", 1)})
	})

	client := newTestClient(t, mux, "test-token")
	stats, err := client.FetchUserStats(context.Background(), "vercel")

	require.NoError(t, err)
	assert.Equal(t, 200, stats.Repos, "private repos of the token owner must not leak into other users")
	assert.Equal(t, 1, stats.Commits)
}

func TestFetchUserStats_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/ghost", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})

	client := newTestClient(t, mux, "")
	_, err := client.FetchUserStats(context.Background(), "ghost")

	assert.ErrorIs(t, err, driven.ErrUserNotFound)
}

func TestFetchRepoStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/vercel/next.js", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":              "next.js",
			"full_name":         "vercel/next.js",
			"owner":             map[string]any{"login": "vercel"},
			"stargazers_count":  120000,
			"forks_count":       25000,
			"open_issues_count": 2500,
			"updated_at":        "2026-01-02T12:00:00Z",
			"html_url":          "https://github.com/vercel/next.js",
		})
	})

	client := newTestClient(t, mux, "")
	stats, err := client.FetchRepoStats(context.Background(), "vercel/next.js")

	require.NoError(t, err)
	assert.Equal(t, "vercel", stats.Owner)
	assert.Equal(t, "next.js", stats.Name)
	assert.Equal(t, "vercel/next.js", stats.FullName)
	assert.Equal(t, 120000, stats.Stars)
	assert.Equal(t, 25000, stats.Forks)
	assert.Equal(t, 2500, stats.OpenIssues)
	assert.Equal(t, time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC), stats.UpdatedAt.UTC())
	assert.Equal(t, "https://github.com/vercel/next.js", stats.URL)
}

func TestFetchRepoStats_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})

	client := newTestClient(t, mux, "")
	_, err := client.FetchRepoStats(context.Background(), "owner/missing")

	assert.ErrorIs(t, err, driven.ErrRepoNotFound)
}

func TestFetchRepoStats_InvalidRepoName(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), "")

	_, err := client.FetchRepoStats(context.Background(), "no-slash")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected owner/repo")
}

func TestFetchRepoStats_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
	})

	client := newTestClient(t, mux, "")
	_, err := client.FetchRepoStats(context.Background(), "owner/repo")

	require.Error(t, err)
	assert.NotErrorIs(t, err, driven.ErrRepoNotFound)
}
