package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// formatTime renders t as an RFC 3339 UTC string.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr renders an optional time; nil and the zero time become null.
func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// nullIfEmpty maps the empty string to null.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// TokenStatusResponse reports where the active GitHub token comes from.
// The token itself is never returned.
type TokenStatusResponse struct {
	Source    string  `json:"source"`
	UpdatedAt *string `json:"updatedAt"`
}

// SettingsResponse is the JSON representation of the dashboard settings.
type SettingsResponse struct {
	GitHubUsername string   `json:"githubUsername"`
	TrackedRepos   []string `json:"trackedRepos"`
	UpdatedAt      *string  `json:"updatedAt"`
}

// ProgressResponse is an aggregate completion figure.
type ProgressResponse struct {
	Percent   int `json:"percent"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// ObjectiveResponse is the JSON representation of an objective with its
// live key results.
type ObjectiveResponse struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Why        *string             `json:"why"`
	How        *string             `json:"how"`
	What       *string             `json:"what"`
	Completed  bool                `json:"completed"`
	Deadline   *string             `json:"deadline"`
	Progress   int                 `json:"progress"`
	CreatedAt  string              `json:"createdAt"`
	UpdatedAt  string              `json:"updatedAt"`
	KeyResults []KeyResultResponse `json:"keyResults"`
}

// KeyResultResponse is the JSON representation of a key result.
type KeyResultResponse struct {
	ID          string  `json:"id"`
	ObjectiveID string  `json:"objectiveId"`
	Title       string  `json:"title"`
	Priority    string  `json:"priority"`
	Completed   bool    `json:"completed"`
	Deadline    *string `json:"deadline"`
	Why         *string `json:"why"`
	How         *string `json:"how"`
	What        *string `json:"what"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// BoardItemResponse is one open item on the deadline board.
type BoardItemResponse struct {
	ID                string  `json:"id"`
	Kind              string  `json:"kind"`
	Title             string  `json:"title"`
	Priority          string  `json:"priority"`
	Deadline          *string `json:"deadline"`
	ObjectiveID       string  `json:"objectiveId"`
	ObjectiveTitle    string  `json:"objectiveTitle"`
	ObjectiveProgress int     `json:"objectiveProgress"`
}

// BucketsResponse partitions board items by deadline horizon.
type BucketsResponse struct {
	Overdue  []BoardItemResponse `json:"overdue"`
	Upcoming []BoardItemResponse `json:"upcoming"`
	ThisWeek []BoardItemResponse `json:"thisWeek"`
	Later    []BoardItemResponse `json:"later"`
}

// BoardResponse is the OKR board.
type BoardResponse struct {
	Buckets  BucketsResponse  `json:"buckets"`
	Progress ProgressResponse `json:"progress"`
}

// TodoResponse is the JSON representation of a todo.
type TodoResponse struct {
	ID          string  `json:"id"`
	Content     string  `json:"content"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Completed   bool    `json:"completed"`
	DueDate     *string `json:"dueDate"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// PostResponse is the JSON representation of a blog post. HTML is only
// populated on the single-post endpoint.
type PostResponse struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"`
	HTML    string   `json:"html,omitempty"`
}

// UserStatsResponse is a GitHub user's activity summary.
type UserStatsResponse struct {
	Username     string              `json:"username"`
	Repos        int                 `json:"repos"`
	Commits      int                 `json:"commits"`
	TrackedRepos []RepoStatsResponse `json:"trackedRepos"`
}

// RepoStatsResponse is the headline numbers of a repository.
type RepoStatsResponse struct {
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	FullName    string  `json:"fullName"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	OpenIssues  int     `json:"openIssues"`
	LastUpdated *string `json:"lastUpdated"`
	URL         string  `json:"url"`
}

// ContributionResponse is one day of the contribution calendar.
type ContributionResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// CalendarResponse is a user's contribution calendar.
type CalendarResponse struct {
	Total         int                    `json:"total"`
	Contributions []ContributionResponse `json:"contributions"`
}

// StatsSnapshotResponse is the background-refreshed GitHub data.
type StatsSnapshotResponse struct {
	User        UserStatsResponse   `json:"user"`
	Repos       []RepoStatsResponse `json:"repos"`
	Calendar    CalendarResponse    `json:"calendar"`
	RefreshedAt *string             `json:"refreshedAt"`
	Error       *string             `json:"error"`
}

// DashboardResponse is the landing page summary.
type DashboardResponse struct {
	Settings     SettingsResponse      `json:"settings"`
	Stats        StatsSnapshotResponse `json:"stats"`
	PendingTodos []TodoResponse        `json:"pendingTodos"`
	RecentPosts  []PostResponse        `json:"recentPosts"`
	Progress     ProgressResponse      `json:"progress"`
	BucketCounts map[string]int        `json:"bucketCounts"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toTokenStatusResponse(st model.TokenStatus) TokenStatusResponse {
	return TokenStatusResponse{Source: string(st.Source), UpdatedAt: formatTimePtr(st.UpdatedAt)}
}

func toSettingsResponse(s model.Settings) SettingsResponse {
	return SettingsResponse{
		GitHubUsername: s.GitHubUsername,
		TrackedRepos:   nonNil(s.TrackedRepos),
		UpdatedAt:      formatTimePtr(&s.UpdatedAt),
	}
}

func toProgressResponse(p model.Progress) ProgressResponse {
	return ProgressResponse{Percent: p.Percent, Completed: p.Completed, Total: p.Total}
}

func toObjectiveResponse(o model.Objective) ObjectiveResponse {
	krs := make([]KeyResultResponse, 0, len(o.KeyResults))
	for _, kr := range o.KeyResults {
		krs = append(krs, toKeyResultResponse(kr))
	}

	return ObjectiveResponse{
		ID:         o.ID,
		Title:      o.Title,
		Why:        nullIfEmpty(o.Why),
		How:        nullIfEmpty(o.How),
		What:       nullIfEmpty(o.What),
		Completed:  o.Completed,
		Deadline:   formatTimePtr(o.Deadline),
		Progress:   o.Progress(),
		CreatedAt:  formatTime(o.CreatedAt),
		UpdatedAt:  formatTime(o.UpdatedAt),
		KeyResults: krs,
	}
}

func toKeyResultResponse(kr model.KeyResult) KeyResultResponse {
	return KeyResultResponse{
		ID:          kr.ID,
		ObjectiveID: kr.ObjectiveID,
		Title:       kr.Title,
		Priority:    string(kr.Priority),
		Completed:   kr.Completed,
		Deadline:    formatTimePtr(kr.Deadline),
		Why:         nullIfEmpty(kr.Why),
		How:         nullIfEmpty(kr.How),
		What:        nullIfEmpty(kr.What),
		CreatedAt:   formatTime(kr.CreatedAt),
		UpdatedAt:   formatTime(kr.UpdatedAt),
	}
}

func toBoardItems(items []model.BoardItem) []BoardItemResponse {
	out := make([]BoardItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, BoardItemResponse{
			ID:                it.ID,
			Kind:              string(it.Kind),
			Title:             it.Title,
			Priority:          string(it.Priority),
			Deadline:          formatTimePtr(it.Deadline),
			ObjectiveID:       it.ObjectiveID,
			ObjectiveTitle:    it.ObjectiveTitle,
			ObjectiveProgress: it.ObjectiveProgress,
		})
	}
	return out
}

func toBoardResponse(b model.Board) BoardResponse {
	return BoardResponse{
		Buckets: BucketsResponse{
			Overdue:  toBoardItems(b.Buckets.Overdue),
			Upcoming: toBoardItems(b.Buckets.Upcoming),
			ThisWeek: toBoardItems(b.Buckets.ThisWeek),
			Later:    toBoardItems(b.Buckets.Later),
		},
		Progress: toProgressResponse(b.Progress),
	}
}

func toTodoResponse(t model.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Content:     t.Content,
		Description: nullIfEmpty(t.Description),
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		Status:      string(t.Status),
		Completed:   t.Completed,
		DueDate:     formatTimePtr(t.DueDate),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func toTodoResponses(todos []model.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}
	return out
}

func toPostResponse(p model.Post) PostResponse {
	return PostResponse{
		Slug:    p.Slug,
		Title:   p.Title,
		Excerpt: p.Excerpt,
		Content: p.Content,
		Tags:    nonNil(p.Tags),
		Date:    formatTime(p.Date),
	}
}

func toPostResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toUserStatsResponse(u model.UserStats) UserStatsResponse {
	return UserStatsResponse{
		Username:     u.Username,
		Repos:        u.Repos,
		Commits:      u.Commits,
		TrackedRepos: []RepoStatsResponse{},
	}
}

func toRepoStatsResponse(r model.RepoStats) RepoStatsResponse {
	return RepoStatsResponse{
		Owner:       r.Owner,
		Name:        r.Name,
		FullName:    r.FullName,
		Stars:       r.Stars,
		Forks:       r.Forks,
		OpenIssues:  r.OpenIssues,
		LastUpdated: formatTimePtr(&r.UpdatedAt),
		URL:         r.URL,
	}
}

func toRepoStatsResponses(repos []model.RepoStats) []RepoStatsResponse {
	out := make([]RepoStatsResponse, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepoStatsResponse(r))
	}
	return out
}

func toCalendarResponse(c model.ContributionCalendar) CalendarResponse {
	days := make([]ContributionResponse, 0, len(c.Days))
	for _, d := range c.Days {
		days = append(days, ContributionResponse{Date: d.Date, Count: d.Count, Level: d.Level})
	}
	return CalendarResponse{Total: c.Total, Contributions: days}
}

func toStatsSnapshotResponse(s model.StatsSnapshot) StatsSnapshotResponse {
	repos := toRepoStatsResponses(s.Repos)
	user := toUserStatsResponse(s.User)
	user.TrackedRepos = repos

	return StatsSnapshotResponse{
		User:        user,
		Repos:       repos,
		Calendar:    toCalendarResponse(s.Calendar),
		RefreshedAt: formatTimePtr(&s.RefreshedAt),
		Error:       nullIfEmpty(s.Err),
	}
}

func toDashboardResponse(d model.DashboardSummary) DashboardResponse {
	counts := make(map[string]int, len(d.BucketCounts))
	for b, n := range d.BucketCounts {
		counts[bucketKey(b)] = n
	}

	return DashboardResponse{
		Settings:     toSettingsResponse(d.Settings),
		Stats:        toStatsSnapshotResponse(d.Stats),
		PendingTodos: toTodoResponses(d.PendingTodos),
		RecentPosts:  toPostResponses(d.RecentPosts),
		Progress:     toProgressResponse(d.Progress),
		BucketCounts: counts,
	}
}

// bucketKey maps a bucket to its camelCase JSON key.
func bucketKey(b model.Bucket) string {
	if b == model.BucketThisWeek {
		return "thisWeek"
	}
	return string(b)
}
