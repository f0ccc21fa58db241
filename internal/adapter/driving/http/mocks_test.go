package httphandler_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockSettingsStore struct {
	mu       sync.Mutex
	settings *model.Settings
}

func (m *mockSettingsStore) Get(_ context.Context) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *mockSettingsStore) EnsureExists(_ context.Context, defaults model.Settings) (model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		defaults.UpdatedAt = time.Now().UTC()
		m.settings = &defaults
	}
	return *m.settings, nil
}

func (m *mockSettingsStore) Save(_ context.Context, s model.Settings) (model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now().UTC()
	m.settings = &s
	return s, nil
}

type mockCredentialStore struct {
	values map[string]string
	setErr error
}

func (m *mockCredentialStore) Set(_ context.Context, service, plaintext string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[service] = plaintext
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, service string) (string, error) {
	return m.values[service], nil
}

func (m *mockCredentialStore) Stat(_ context.Context, service string) (model.Credential, bool, error) {
	if _, ok := m.values[service]; !ok {
		return model.Credential{}, false, nil
	}
	return model.Credential{Service: service, UpdatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}, true, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, service string) error {
	delete(m.values, service)
	return nil
}

// mockObjectiveStore keeps objectives and key results in memory. Deleted
// rows are dropped.
type mockObjectiveStore struct {
	objectives map[string]model.Objective
	keyResults map[string]model.KeyResult
	clock      time.Time
}

func newMockObjectiveStore() *mockObjectiveStore {
	return &mockObjectiveStore{
		objectives: map[string]model.Objective{},
		keyResults: map[string]model.KeyResult{},
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockObjectiveStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockObjectiveStore) withKeyResults(o model.Objective) model.Objective {
	o.KeyResults = []model.KeyResult{}
	for _, kr := range m.keyResults {
		if kr.ObjectiveID == o.ID {
			o.KeyResults = append(o.KeyResults, kr)
		}
	}
	slices.SortFunc(o.KeyResults, func(a, b model.KeyResult) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return o
}

func (m *mockObjectiveStore) ListObjectives(_ context.Context) ([]model.Objective, error) {
	out := make([]model.Objective, 0, len(m.objectives))
	for _, o := range m.objectives {
		out = append(out, m.withKeyResults(o))
	}
	slices.SortFunc(out, func(a, b model.Objective) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *mockObjectiveStore) GetObjective(_ context.Context, id string) (*model.Objective, error) {
	o, ok := m.objectives[id]
	if !ok {
		return nil, nil
	}
	o = m.withKeyResults(o)
	return &o, nil
}

func (m *mockObjectiveStore) CreateObjective(_ context.Context, o model.Objective) (model.Objective, error) {
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	o.KeyResults = nil
	m.objectives[o.ID] = o
	return m.withKeyResults(o), nil
}

func (m *mockObjectiveStore) SaveObjective(_ context.Context, o model.Objective) (model.Objective, error) {
	if _, ok := m.objectives[o.ID]; !ok {
		return model.Objective{}, driven.ErrObjectiveNotFound
	}
	o.UpdatedAt = m.tick()
	o.KeyResults = nil
	m.objectives[o.ID] = o
	return m.withKeyResults(o), nil
}

func (m *mockObjectiveStore) DeleteObjective(_ context.Context, id string) error {
	if _, ok := m.objectives[id]; !ok {
		return driven.ErrObjectiveNotFound
	}
	delete(m.objectives, id)
	for krID, kr := range m.keyResults {
		if kr.ObjectiveID == id {
			delete(m.keyResults, krID)
		}
	}
	return nil
}

func (m *mockObjectiveStore) GetKeyResult(_ context.Context, id string) (*model.KeyResult, error) {
	kr, ok := m.keyResults[id]
	if !ok {
		return nil, nil
	}
	return &kr, nil
}

func (m *mockObjectiveStore) CreateKeyResult(_ context.Context, kr model.KeyResult) (model.KeyResult, error) {
	if _, ok := m.objectives[kr.ObjectiveID]; !ok {
		return model.KeyResult{}, driven.ErrObjectiveNotFound
	}
	kr.CreatedAt = m.tick()
	kr.UpdatedAt = kr.CreatedAt
	m.keyResults[kr.ID] = kr
	return kr, nil
}

func (m *mockObjectiveStore) SaveKeyResult(_ context.Context, kr model.KeyResult) (model.KeyResult, error) {
	if _, ok := m.keyResults[kr.ID]; !ok {
		return model.KeyResult{}, driven.ErrKeyResultNotFound
	}
	kr.UpdatedAt = m.tick()
	m.keyResults[kr.ID] = kr
	return kr, nil
}

func (m *mockObjectiveStore) DeleteKeyResult(_ context.Context, id string) error {
	if _, ok := m.keyResults[id]; !ok {
		return driven.ErrKeyResultNotFound
	}
	delete(m.keyResults, id)
	return nil
}

type mockTodoStore struct {
	todos map[string]model.Todo
	clock time.Time
}

func newMockTodoStore() *mockTodoStore {
	return &mockTodoStore{
		todos: map[string]model.Todo{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockTodoStore) List(_ context.Context, f driven.TodoFilter) ([]model.Todo, error) {
	out := []model.Todo{}
	for _, t := range m.todos {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.PendingOnly && t.Completed {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b model.Todo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockTodoStore) Get(_ context.Context, id string) (*model.Todo, error) {
	t, ok := m.todos[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *mockTodoStore) Create(_ context.Context, t model.Todo) (model.Todo, error) {
	m.clock = m.clock.Add(time.Second)
	t.CreatedAt = m.clock
	t.UpdatedAt = m.clock
	m.todos[t.ID] = t
	return t, nil
}

func (m *mockTodoStore) Save(_ context.Context, t model.Todo) (model.Todo, error) {
	if _, ok := m.todos[t.ID]; !ok {
		return model.Todo{}, driven.ErrTodoNotFound
	}
	m.todos[t.ID] = t
	return t, nil
}

func (m *mockTodoStore) Delete(_ context.Context, id string) error {
	if _, ok := m.todos[id]; !ok {
		return driven.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *mockTodoStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.todos)), nil
}

type mockPostStore struct {
	posts map[string]model.Post
}

func (m *mockPostStore) List(_ context.Context, limit int) ([]model.Post, error) {
	out := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Post) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(a.Slug, b.Slug))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockPostStore) GetBySlug(_ context.Context, slug string) (*model.Post, error) {
	p, ok := m.posts[slug]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockPostStore) Create(_ context.Context, p model.Post) (model.Post, error) {
	if _, ok := m.posts[p.Slug]; ok {
		return model.Post{}, driven.ErrPostAlreadyExists
	}
	m.posts[p.Slug] = p
	return p, nil
}

func (m *mockPostStore) Upsert(_ context.Context, p model.Post) (model.Post, error) {
	m.posts[p.Slug] = p
	return p, nil
}

// mockGitHubClient answers from function fields; nil fields use defaults.
type mockGitHubClient struct {
	fetchUser     func(ctx context.Context, username string) (model.UserStats, error)
	fetchRepo     func(ctx context.Context, name string) (model.RepoStats, error)
	fetchCalendar func(ctx context.Context, username string) (model.ContributionCalendar, error)
}

func (m *mockGitHubClient) FetchUserStats(ctx context.Context, username string) (model.UserStats, error) {
	if m.fetchUser != nil {
		return m.fetchUser(ctx, username)
	}
	return model.UserStats{Username: username}, nil
}

func (m *mockGitHubClient) FetchRepoStats(ctx context.Context, name string) (model.RepoStats, error) {
	if m.fetchRepo != nil {
		return m.fetchRepo(ctx, name)
	}
	return model.RepoStats{FullName: name}, nil
}

func (m *mockGitHubClient) FetchContributionCalendar(ctx context.Context, username string) (model.ContributionCalendar, error) {
	if m.fetchCalendar != nil {
		return m.fetchCalendar(ctx, username)
	}
	return model.ContributionCalendar{}, driven.ErrTokenRequired
}
