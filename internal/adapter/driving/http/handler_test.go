package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/mydashboard/internal/adapter/driving/http"
	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// --- Test helpers ---

type testEnv struct {
	mux         http.Handler
	settings    *mockSettingsStore
	credentials *mockCredentialStore
	objectives  *mockObjectiveStore
	todos       *mockTodoStore
	posts       *mockPostStore
	stats       *application.StatsService

	mu     sync.Mutex
	tokens []string
}

func (e *testEnv) clientTokens() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.tokens...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupEnv wires real services over in-memory stores and the given client.
func setupEnv(t *testing.T, client driven.GitHubClient) *testEnv {
	t.Helper()
	logger := discardLogger()

	env := &testEnv{
		settings:    &mockSettingsStore{},
		credentials: &mockCredentialStore{values: map[string]string{}},
		objectives:  newMockObjectiveStore(),
		todos:       newMockTodoStore(),
		posts:       &mockPostStore{posts: map[string]model.Post{}},
	}

	provider := application.NewGitHubClientProvider(client)
	newClient := func(token string) driven.GitHubClient {
		env.mu.Lock()
		env.tokens = append(env.tokens, token)
		env.mu.Unlock()
		return client
	}

	settingsSvc := application.NewSettingsService(env.settings, env.credentials, provider, newClient, "", "octocat", logger)
	okrSvc := application.NewOKRService(env.objectives, time.Sunday, logger)
	todoSvc := application.NewTodoService(env.todos, logger)
	blogSvc := application.NewBlogService(env.posts, logger)
	env.stats = application.NewStatsService(provider, settingsSvc, cron.Every(time.Hour), logger)
	dashSvc := application.NewDashboardService(settingsSvc, okrSvc, todoSvc, blogSvc, env.stats)

	render := func(md string) string { return "<p>" + md + "</p>" }
	h := httphandler.NewHandler(settingsSvc, okrSvc, todoSvc, blogSvc, env.stats, dashSvc, time.UTC, render, logger)
	env.mux = httphandler.NewServeMux(h, logger)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func createObjective(t *testing.T, env *testEnv, body string) httphandler.ObjectiveResponse {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/v1/objectives", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var o httphandler.ObjectiveResponse
	decodeJSON(t, rec, &o)
	return o
}

func createTodo(t *testing.T, env *testEnv, body string) httphandler.TodoResponse {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/v1/todos", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var todo httphandler.TodoResponse
	decodeJSON(t, rec, &todo)
	return todo
}

// --- Tests ---

func TestHealth(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	rec := env.do(http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	_, err := time.Parse(time.RFC3339, resp.Time)
	assert.NoError(t, err)
}

func TestSettings_GetCreatesDefaults(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	rec := env.do(http.MethodGet, "/api/v1/settings", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.SettingsResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "octocat", resp.GitHubUsername)
	assert.Equal(t, []string{}, resp.TrackedRepos)
	assert.NotNil(t, resp.UpdatedAt)
}

func TestSettings_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantRepos  []string
	}{
		{
			name:       "valid repos trimmed in order",
			body:       `{"githubUsername":"torvalds","trackedRepos":[" torvalds/linux ","golang/go"]}`,
			wantStatus: http.StatusOK,
			wantRepos:  []string{"torvalds/linux", "golang/go"},
		},
		{
			name:       "invalid repo",
			body:       `{"trackedRepos":["not-a-repo"]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"trackedRepos":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, &mockGitHubClient{})

			rec := env.do(http.MethodPut, "/api/v1/settings", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				var resp map[string]string
				decodeJSON(t, rec, &resp)
				assert.NotEmpty(t, resp["error"])
				return
			}
			var resp httphandler.SettingsResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, "torvalds", resp.GitHubUsername)
			assert.Equal(t, tt.wantRepos, resp.TrackedRepos)
		})
	}
}

func TestGitHubToken_SetAndClear(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	status := func() httphandler.TokenStatusResponse {
		rec := env.do(http.MethodGet, "/api/v1/settings/github-token", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "ghp_abc")
		var resp httphandler.TokenStatusResponse
		decodeJSON(t, rec, &resp)
		return resp
	}
	assert.Equal(t, "none", status().Source)

	rec := env.do(http.MethodPut, "/api/v1/settings/github-token", `{"token":" ghp_abc "}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ghp_abc", env.credentials.values["github"])

	stored := status()
	assert.Equal(t, "stored", stored.Source)
	require.NotNil(t, stored.UpdatedAt)
	assert.Equal(t, "2026-02-01T00:00:00Z", *stored.UpdatedAt)

	rec = env.do(http.MethodDelete, "/api/v1/settings/github-token", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.credentials.values)

	assert.Equal(t, []string{"ghp_abc", ""}, env.clientTokens())
}

func TestGitHubToken_Errors(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	rec := env.do(http.MethodPut, "/api/v1/settings/github-token", `{"token":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.credentials.setErr = driven.ErrEncryptionKeyNotSet
	rec = env.do(http.MethodPut, "/api/v1/settings/github-token", `{"token":"ghp_abc"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, env.clientTokens())
}

func TestObjectives_CRUD(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	o := createObjective(t, env, `{"title":"  Launch  ","why":"growth","deadline":"2026-06-30"}`)
	assert.Equal(t, "Launch", o.Title)
	require.NotNil(t, o.Why)
	assert.Equal(t, "growth", *o.Why)
	assert.Nil(t, o.How)
	require.NotNil(t, o.Deadline)
	assert.Equal(t, "2026-06-30T00:00:00Z", *o.Deadline)
	assert.Equal(t, []httphandler.KeyResultResponse{}, o.KeyResults)
	assert.Equal(t, 0, o.Progress)

	// Clearing the deadline with an explicit null.
	rec := env.do(http.MethodPatch, "/api/v1/objectives/"+o.ID, `{"deadline":null,"how":"ship it"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var patched httphandler.ObjectiveResponse
	decodeJSON(t, rec, &patched)
	assert.Nil(t, patched.Deadline)
	require.NotNil(t, patched.How)
	assert.Equal(t, "ship it", *patched.How)

	// Omitting the deadline leaves it alone.
	rec = env.do(http.MethodPatch, "/api/v1/objectives/"+o.ID, `{"deadline":"2026-07-01T09:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodPatch, "/api/v1/objectives/"+o.ID, `{"what":"a launch"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &patched)
	require.NotNil(t, patched.Deadline)
	assert.Equal(t, "2026-07-01T09:00:00Z", *patched.Deadline)

	rec = env.do(http.MethodPost, "/api/v1/objectives/"+o.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled httphandler.ObjectiveResponse
	decodeJSON(t, rec, &toggled)
	assert.True(t, toggled.Completed)
	assert.Equal(t, 100, toggled.Progress)

	rec = env.do(http.MethodGet, "/api/v1/objectives", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []httphandler.ObjectiveResponse
	decodeJSON(t, rec, &list)
	require.Len(t, list, 1)

	rec = env.do(http.MethodDelete, "/api/v1/objectives/"+o.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/objectives/"+o.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestObjectives_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"missing title", http.MethodPost, "/api/v1/objectives", `{"why":"x"}`, http.StatusBadRequest},
		{"bad deadline", http.MethodPost, "/api/v1/objectives", `{"title":"x","deadline":"next week"}`, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/v1/objectives", `nope`, http.StatusBadRequest},
		{"get unknown", http.MethodGet, "/api/v1/objectives/nope", "", http.StatusNotFound},
		{"patch unknown", http.MethodPatch, "/api/v1/objectives/nope", `{"title":"x"}`, http.StatusNotFound},
		{"toggle unknown", http.MethodPost, "/api/v1/objectives/nope/toggle", "", http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/v1/objectives/nope", "", http.StatusNotFound},
		{"key result on unknown objective", http.MethodPost, "/api/v1/objectives/nope/key-results", `{"title":"x"}`, http.StatusNotFound},
		{"patch unknown key result", http.MethodPatch, "/api/v1/key-results/nope", `{"title":"x"}`, http.StatusNotFound},
		{"delete unknown key result", http.MethodDelete, "/api/v1/key-results/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, &mockGitHubClient{})

			rec := env.do(tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			var resp map[string]string
			decodeJSON(t, rec, &resp)
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestKeyResults_Lifecycle(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})
	o := createObjective(t, env, `{"title":"Grow"}`)

	rec := env.do(http.MethodPost, "/api/v1/objectives/"+o.ID+"/key-results", `{"title":"Ship v1","priority":"high"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var kr httphandler.KeyResultResponse
	decodeJSON(t, rec, &kr)
	assert.Equal(t, "high", kr.Priority)
	assert.Equal(t, o.ID, kr.ObjectiveID)

	rec = env.do(http.MethodPost, "/api/v1/objectives/"+o.ID+"/key-results", `{"title":"Write docs"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var second httphandler.KeyResultResponse
	decodeJSON(t, rec, &second)
	assert.Equal(t, "medium", second.Priority)

	rec = env.do(http.MethodPost, "/api/v1/objectives/"+o.ID+"/key-results", `{"title":"x","priority":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/api/v1/key-results/"+kr.ID, `{"priority":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/key-results/"+kr.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &kr)
	assert.True(t, kr.Completed)

	rec = env.do(http.MethodGet, "/api/v1/objectives/"+o.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got httphandler.ObjectiveResponse
	decodeJSON(t, rec, &got)
	assert.Len(t, got.KeyResults, 2)
	assert.Equal(t, 50, got.Progress)

	rec = env.do(http.MethodDelete, "/api/v1/key-results/"+second.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/objectives/"+o.ID, "")
	decodeJSON(t, rec, &got)
	assert.Len(t, got.KeyResults, 1)
	assert.Equal(t, 100, got.Progress)
}

func TestBoard(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	overdue := time.Now().UTC().AddDate(0, 0, -3).Format(time.DateOnly)
	later := time.Now().UTC().AddDate(0, 2, 0).Format(time.DateOnly)

	o := createObjective(t, env, `{"title":"Grow","deadline":"`+later+`"}`)
	rec := env.do(http.MethodPost, "/api/v1/objectives/"+o.ID+"/key-results", `{"title":"Late","deadline":"`+overdue+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(http.MethodPost, "/api/v1/objectives/"+o.ID+"/key-results", `{"title":"Someday"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	createObjective(t, env, `{"title":"Bare","deadline":"`+later+`"}`)

	rec = env.do(http.MethodGet, "/api/v1/okr/board", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var board httphandler.BoardResponse
	decodeJSON(t, rec, &board)

	require.Len(t, board.Buckets.Overdue, 1)
	assert.Equal(t, "Late", board.Buckets.Overdue[0].Title)
	assert.Equal(t, "key_result", board.Buckets.Overdue[0].Kind)
	assert.Equal(t, "Grow", board.Buckets.Overdue[0].ObjectiveTitle)
	assert.NotNil(t, board.Buckets.Upcoming)
	assert.NotNil(t, board.Buckets.ThisWeek)
	assert.Len(t, board.Buckets.Later, 2)
	assert.Equal(t, httphandler.ProgressResponse{Percent: 0, Completed: 0, Total: 3}, board.Progress)
}

func TestTodos_Lifecycle(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	todo := createTodo(t, env, `{"content":"Write tests","priority":"high","dueDate":"2026-04-01"}`)
	assert.Equal(t, "todo", todo.Status)
	assert.False(t, todo.Completed)
	assert.Equal(t, "short-term", todo.Category)
	assert.Nil(t, todo.Description)
	require.NotNil(t, todo.DueDate)

	createTodo(t, env, `{"content":"Learn Rust","category":"future-aims","priority":"low"}`)

	rec := env.do(http.MethodPost, "/api/v1/todos/"+todo.ID+"/toggle", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled httphandler.TodoResponse
	decodeJSON(t, rec, &toggled)
	assert.True(t, toggled.Completed)
	assert.Equal(t, "done", toggled.Status)

	rec = env.do(http.MethodPatch, "/api/v1/todos/"+todo.ID, `{"status":"in-progress","dueDate":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var patched httphandler.TodoResponse
	decodeJSON(t, rec, &patched)
	assert.False(t, patched.Completed)
	assert.Equal(t, "in-progress", patched.Status)
	assert.Nil(t, patched.DueDate)

	rec = env.do(http.MethodGet, "/api/v1/todos?category=future-aims", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []httphandler.TodoResponse
	decodeJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Learn Rust", list[0].Content)

	rec = env.do(http.MethodGet, "/api/v1/todos?sort=priority", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Write tests", list[0].Content)

	rec = env.do(http.MethodDelete, "/api/v1/todos/"+todo.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodDelete, "/api/v1/todos/"+todo.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodos_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"empty content", http.MethodPost, "/api/v1/todos", `{"content":"  "}`, http.StatusBadRequest},
		{"unknown priority", http.MethodPost, "/api/v1/todos", `{"content":"x","priority":"urgent"}`, http.StatusBadRequest},
		{"unknown category filter", http.MethodGet, "/api/v1/todos?category=someday", "", http.StatusBadRequest},
		{"unknown sort", http.MethodGet, "/api/v1/todos?sort=random", "", http.StatusBadRequest},
		{"toggle without completed", http.MethodPost, "/api/v1/todos/x/toggle", `{}`, http.StatusBadRequest},
		{"toggle unknown", http.MethodPost, "/api/v1/todos/x/toggle", `{"completed":true}`, http.StatusNotFound},
		{"patch unknown", http.MethodPatch, "/api/v1/todos/x", `{"content":"y"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, &mockGitHubClient{})

			rec := env.do(tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestPosts(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	rec := env.do(http.MethodPost, "/api/v1/posts", `{"title":"Hello, World!","content":"# Hi","date":"2026-02-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created httphandler.PostResponse
	decodeJSON(t, rec, &created)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, []string{}, created.Tags)
	assert.Equal(t, "2026-02-01T00:00:00Z", created.Date)
	assert.Empty(t, created.HTML)

	rec = env.do(http.MethodPost, "/api/v1/posts", `{"slug":"hello-world","title":"Again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/posts/hello-world", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got httphandler.PostResponse
	decodeJSON(t, rec, &got)
	assert.Equal(t, "<p># Hi</p>", got.HTML)

	rec = env.do(http.MethodPut, "/api/v1/posts/hello-world", `{"title":"Hello again","content":"updated","tags":["go"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var upserted httphandler.PostResponse
	decodeJSON(t, rec, &upserted)
	assert.Equal(t, "Hello again", upserted.Title)
	assert.Equal(t, "2026-02-01T00:00:00Z", upserted.Date)

	rec = env.do(http.MethodPut, "/api/v1/posts/Bad_Slug", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/posts/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []httphandler.PostResponse
	decodeJSON(t, rec, &list)
	assert.Len(t, list, 1)
}

func TestGitHubUser(t *testing.T) {
	client := &mockGitHubClient{
		fetchUser: func(_ context.Context, username string) (model.UserStats, error) {
			return model.UserStats{Username: username, Repos: 8, Commits: 120}, nil
		},
	}
	env := setupEnv(t, client)

	rec := env.do(http.MethodGet, "/api/v1/github/user?username=torvalds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.UserStatsResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "torvalds", resp.Username)
	assert.Equal(t, 8, resp.Repos)
	assert.Equal(t, 120, resp.Commits)

	for _, path := range []string{"/api/v1/github/user", "/api/v1/github/user?username=%20"} {
		rec = env.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "username is required")
	}
}

func TestGitHubUser_FailureYieldsZeros(t *testing.T) {
	client := &mockGitHubClient{
		fetchUser: func(_ context.Context, _ string) (model.UserStats, error) {
			return model.UserStats{}, errors.New("rate limited")
		},
	}
	env := setupEnv(t, client)

	rec := env.do(http.MethodGet, "/api/v1/github/user?username=someone", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.UserStatsResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, httphandler.UserStatsResponse{Username: "someone", TrackedRepos: []httphandler.RepoStatsResponse{}}, resp)
}

func TestGitHubRepo(t *testing.T) {
	updated := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	client := &mockGitHubClient{
		fetchRepo: func(_ context.Context, name string) (model.RepoStats, error) {
			switch name {
			case "missing/repo":
				return model.RepoStats{}, driven.ErrRepoNotFound
			case "flaky/repo":
				return model.RepoStats{}, errors.New("connection reset")
			}
			return model.RepoStats{
				Owner: "golang", Name: "go", FullName: name, Stars: 120000,
				UpdatedAt: updated, URL: "https://github.com/" + name,
			}, nil
		},
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"found", "owner=golang&repo=go", http.StatusOK},
		{"missing owner", "repo=go", http.StatusBadRequest},
		{"missing repo", "owner=golang", http.StatusBadRequest},
		{"malformed owner", "owner=a%20b&repo=go", http.StatusBadRequest},
		{"not found", "owner=missing&repo=repo", http.StatusNotFound},
		{"upstream failure", "owner=flaky&repo=repo", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, client)

			rec := env.do(http.MethodGet, "/api/v1/github/repo?"+tt.query, "")

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				var resp httphandler.RepoStatsResponse
				decodeJSON(t, rec, &resp)
				assert.Equal(t, 120000, resp.Stars)
				assert.Equal(t, "golang/go", resp.FullName)
				require.NotNil(t, resp.LastUpdated)
				assert.Equal(t, "2026-03-01T08:00:00Z", *resp.LastUpdated)
			}
		})
	}
}

func TestGitHubCalendar(t *testing.T) {
	t.Run("username required", func(t *testing.T) {
		env := setupEnv(t, &mockGitHubClient{})
		rec := env.do(http.MethodGet, "/api/v1/github/calendar", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("token required", func(t *testing.T) {
		env := setupEnv(t, &mockGitHubClient{})
		rec := env.do(http.MethodGet, "/api/v1/github/calendar?username=octocat", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("returns contributions", func(t *testing.T) {
		client := &mockGitHubClient{
			fetchCalendar: func(_ context.Context, _ string) (model.ContributionCalendar, error) {
				return model.ContributionCalendar{
					Total: 5,
					Days:  []model.ContributionDay{{Date: "2026-03-01", Count: 5, Level: 2}},
				}, nil
			},
		}
		env := setupEnv(t, client)

		rec := env.do(http.MethodGet, "/api/v1/github/calendar?username=octocat", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp httphandler.CalendarResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, 5, resp.Total)
		assert.Equal(t, []httphandler.ContributionResponse{{Date: "2026-03-01", Count: 5, Level: 2}}, resp.Contributions)
	})
}

func TestGitHubStats_RefreshUpdatesSnapshot(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})

	rec := env.do(http.MethodPut, "/api/v1/settings", `{"trackedRepos":["golang/go"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.stats.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	rec = env.do(http.MethodPost, "/api/v1/github/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var snap httphandler.StatsSnapshotResponse
	decodeJSON(t, rec, &snap)
	require.Len(t, snap.Repos, 1)
	assert.Equal(t, "golang/go", snap.Repos[0].FullName)
	assert.Equal(t, "octocat", snap.User.Username)
	assert.NotNil(t, snap.RefreshedAt)

	rec = env.do(http.MethodGet, "/api/v1/github/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var again httphandler.StatsSnapshotResponse
	decodeJSON(t, rec, &again)
	assert.Equal(t, snap.Repos, again.Repos)
}

func TestDashboard(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{})
	createTodo(t, env, `{"content":"One"}`)
	done := createTodo(t, env, `{"content":"Two"}`)
	rec := env.do(http.MethodPost, "/api/v1/todos/"+done.ID+"/toggle", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	createObjective(t, env, `{"title":"Grow"}`)

	rec = env.do(http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.DashboardResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.PendingTodos, 1)
	assert.Equal(t, "One", resp.PendingTodos[0].Content)
	assert.Equal(t, []httphandler.PostResponse{}, resp.RecentPosts)
	assert.Equal(t, map[string]int{"overdue": 0, "upcoming": 0, "thisWeek": 0, "later": 1}, resp.BucketCounts)
	assert.Equal(t, 1, resp.Progress.Total)
	assert.Equal(t, "octocat", resp.Settings.GitHubUsername)
	assert.Nil(t, resp.Stats.RefreshedAt)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := httphandler.ApplyMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), discardLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var seen string
	handler := httphandler.ApplyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httphandler.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}), discardLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(httphandler.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(httphandler.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(httphandler.RequestIDHeader))
}

func TestRecoveryMiddleware_AfterWrite(t *testing.T) {
	handler := httphandler.ApplyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, "partial")
		panic("late")
	}), discardLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
