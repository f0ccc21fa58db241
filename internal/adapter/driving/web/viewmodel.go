package web

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	vm "github.com/ericfisherdev/mydashboard/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 15:04"
)

var bucketLabels = []struct {
	bucket model.Bucket
	key    string
	label  string
}{
	{model.BucketOverdue, "overdue", "Overdue"},
	{model.BucketUpcoming, "upcoming", "Today & tomorrow"},
	{model.BucketThisWeek, "this-week", "This week"},
	{model.BucketLater, "later", "Later"},
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

func toProgressViewModel(p model.Progress) vm.ProgressViewModel {
	return vm.ProgressViewModel{Percent: p.Percent, Completed: p.Completed, Total: p.Total}
}

func toStatsViewModel(s model.StatsSnapshot, loc *time.Location) vm.StatsViewModel {
	repos := make([]vm.RepoViewModel, 0, len(s.Repos))
	for _, r := range s.Repos {
		repos = append(repos, vm.RepoViewModel{
			FullName:   r.FullName,
			URL:        r.URL,
			Stars:      r.Stars,
			Forks:      r.Forks,
			OpenIssues: r.OpenIssues,
			Updated:    formatDate(&r.UpdatedAt, loc),
		})
	}

	refreshed := ""
	if !s.RefreshedAt.IsZero() {
		refreshed = s.RefreshedAt.In(loc).Format(dateTimeLayout)
	}

	return vm.StatsViewModel{
		Username:      s.User.Username,
		Repos:         s.User.Repos,
		Commits:       s.User.Commits,
		Contributions: s.Calendar.Total,
		TrackedRepos:  repos,
		RefreshedAt:   refreshed,
		Error:         s.Err,
	}
}

func toTodoViewModel(t model.Todo, now time.Time) vm.TodoViewModel {
	overdue := false
	if t.DueDate != nil {
		y, m, d := now.Date()
		overdue = t.DueDate.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
	}
	return vm.TodoViewModel{
		Content:  t.Content,
		Priority: string(t.Priority),
		Category: string(t.Category),
		Status:   string(t.Status),
		Due:      formatDate(t.DueDate, now.Location()),
		Overdue:  overdue,
	}
}

const (
	todoViewList   = "list"
	todoViewKanban = "kanban"
)

var todoStatusColumns = []struct {
	status model.TodoStatus
	label  string
}{
	{model.TodoStatusTodo, "To do"},
	{model.TodoStatusInProgress, "In progress"},
	{model.TodoStatusDone, "Done"},
}

var todoCategoryOptions = []struct {
	category model.TodoCategory
	label    string
}{
	{"", "All"},
	{model.TodoCategoryShortTerm, "Short term"},
	{model.TodoCategoryFutureAims, "Future aims"},
}

var todoSortOptions = []struct {
	sort  model.TodoSort
	label string
}{
	{model.TodoSortDate, "Newest"},
	{model.TodoSortPriority, "Priority"},
	{model.TodoSortStatus, "Status"},
}

// todoPageQuery is the parsed query string of the todo page. An empty
// category lists every category.
type todoPageQuery struct {
	view     string
	category model.TodoCategory
	sort     model.TodoSort
}

func parseTodoPageQuery(q url.Values) (todoPageQuery, error) {
	out := todoPageQuery{view: todoViewList}

	switch v := q.Get("view"); v {
	case "", todoViewList:
	case todoViewKanban:
		out.view = todoViewKanban
	default:
		return todoPageQuery{}, fmt.Errorf("unknown view %q", v)
	}

	if raw := q.Get("category"); raw != "" {
		c, err := model.ParseTodoCategory(raw)
		if err != nil {
			return todoPageQuery{}, err
		}
		out.category = c
	}

	sortBy, err := model.ParseTodoSort(q.Get("sort"))
	if err != nil {
		return todoPageQuery{}, err
	}
	out.sort = sortBy
	return out, nil
}

// href links to the todo page with q's settings. Defaults are left out of
// the query string.
func (q todoPageQuery) href() string {
	v := url.Values{}
	if q.view != todoViewList {
		v.Set("view", q.view)
	}
	if q.category != "" {
		v.Set("category", string(q.category))
	}
	if q.sort != model.TodoSortDate {
		v.Set("sort", string(q.sort))
	}
	if len(v) == 0 {
		return "/todos"
	}
	return "/todos?" + v.Encode()
}

func toTodosViewModel(q todoPageQuery, todos []model.Todo, now time.Time) vm.TodosViewModel {
	page := vm.TodosViewModel{View: q.view, Todos: make([]vm.TodoViewModel, 0, len(todos))}

	for _, view := range []struct{ key, label string }{{todoViewList, "List"}, {todoViewKanban, "Kanban"}} {
		link := q
		link.view = view.key
		page.Views = append(page.Views, vm.FilterLinkViewModel{Label: view.label, Href: link.href(), Active: q.view == view.key})
	}
	for _, opt := range todoCategoryOptions {
		link := q
		link.category = opt.category
		page.Categories = append(page.Categories, vm.FilterLinkViewModel{Label: opt.label, Href: link.href(), Active: q.category == opt.category})
	}
	for _, opt := range todoSortOptions {
		link := q
		link.sort = opt.sort
		page.Sorts = append(page.Sorts, vm.FilterLinkViewModel{Label: opt.label, Href: link.href(), Active: q.sort == opt.sort})
	}

	for _, t := range todos {
		page.Todos = append(page.Todos, toTodoViewModel(t, now))
	}
	if q.view != todoViewKanban {
		return page
	}

	for _, col := range todoStatusColumns {
		column := vm.TodoColumnViewModel{Key: string(col.status), Label: col.label, Items: []vm.TodoViewModel{}}
		for i, t := range todos {
			if t.Status == col.status {
				column.Items = append(column.Items, page.Todos[i])
			}
		}
		page.Columns = append(page.Columns, column)
	}
	return page
}

func toPostCardViewModel(p model.Post, loc *time.Location) vm.PostCardViewModel {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return vm.PostCardViewModel{
		Slug:    p.Slug,
		Title:   p.Title,
		Excerpt: p.Excerpt,
		Date:    formatDate(&p.Date, loc),
		Tags:    tags,
		Path:    "/blog/" + p.Slug,
	}
}

func toPostCardViewModels(posts []model.Post, loc *time.Location) []vm.PostCardViewModel {
	out := make([]vm.PostCardViewModel, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostCardViewModel(p, loc))
	}
	return out
}

func toPostViewModel(p model.Post, loc *time.Location) vm.PostViewModel {
	return vm.PostViewModel{
		PostCardViewModel: toPostCardViewModel(p, loc),
		HTML:              RenderMarkdown(p.Content),
	}
}

func toDashboardViewModel(d model.DashboardSummary, now time.Time) vm.DashboardViewModel {
	todos := make([]vm.TodoViewModel, 0, len(d.PendingTodos))
	for _, t := range d.PendingTodos {
		todos = append(todos, toTodoViewModel(t, now))
	}

	counts := make([]vm.BucketCountViewModel, 0, len(bucketLabels))
	for _, b := range bucketLabels {
		counts = append(counts, vm.BucketCountViewModel{Label: b.label, Count: d.BucketCounts[b.bucket]})
	}

	return vm.DashboardViewModel{
		Stats:        toStatsViewModel(d.Stats, now.Location()),
		PendingTodos: todos,
		RecentPosts:  toPostCardViewModels(d.RecentPosts, now.Location()),
		Progress:     toProgressViewModel(d.Progress),
		BucketCounts: counts,
	}
}

func toBoardViewModel(b model.Board, loc *time.Location) vm.BoardViewModel {
	items := map[model.Bucket][]model.BoardItem{
		model.BucketOverdue:  b.Buckets.Overdue,
		model.BucketUpcoming: b.Buckets.Upcoming,
		model.BucketThisWeek: b.Buckets.ThisWeek,
		model.BucketLater:    b.Buckets.Later,
	}

	columns := make([]vm.BoardColumnViewModel, 0, len(bucketLabels))
	for _, bl := range bucketLabels {
		col := vm.BoardColumnViewModel{Key: bl.key, Label: bl.label, Items: []vm.BoardItemViewModel{}}
		for _, it := range items[bl.bucket] {
			col.Items = append(col.Items, vm.BoardItemViewModel{
				Title:             it.Title,
				Kind:              string(it.Kind),
				Priority:          string(it.Priority),
				Deadline:          formatDate(it.Deadline, loc),
				ObjectiveTitle:    it.ObjectiveTitle,
				ObjectiveProgress: it.ObjectiveProgress,
			})
		}
		columns = append(columns, col)
	}

	return vm.BoardViewModel{Columns: columns, Progress: toProgressViewModel(b.Progress)}
}

func toSettingsViewModel(s model.Settings, token model.TokenStatus, csrf string, loc *time.Location) vm.SettingsViewModel {
	return vm.SettingsViewModel{
		GitHubUsername: s.GitHubUsername,
		TrackedRepos:   strings.Join(s.TrackedRepos, "\n"),
		TokenStatus:    tokenStatusLabel(token, loc),
		CSRFToken:      csrf,
	}
}

func tokenStatusLabel(st model.TokenStatus, loc *time.Location) string {
	switch st.Source {
	case model.TokenSourceStored:
		if st.UpdatedAt != nil {
			return "Stored token, saved " + formatDate(st.UpdatedAt, loc)
		}
		return "Stored token"
	case model.TokenSourceEnv:
		return "Token from MYDASHBOARD_GITHUB_TOKEN"
	default:
		return "No token: public data only, contribution calendar disabled"
	}
}

// parseRepoList splits a textarea of repositories on newlines and commas,
// dropping blanks.
func parseRepoList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	repos := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			repos = append(repos, f)
		}
	}
	return repos
}
