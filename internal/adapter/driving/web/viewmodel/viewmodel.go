// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// ProgressViewModel is a completion figure with its label.
type ProgressViewModel struct {
	Percent   int
	Completed int
	Total     int
}

// RepoViewModel holds the headline numbers for a tracked repository.
type RepoViewModel struct {
	FullName   string
	URL        string
	Stars      int
	Forks      int
	OpenIssues int
	Updated    string
}

// StatsViewModel holds the GitHub panel of the dashboard.
type StatsViewModel struct {
	Username      string
	Repos         int
	Commits       int
	Contributions int
	TrackedRepos  []RepoViewModel
	RefreshedAt   string // empty until the first refresh
	Error         string
}

// TodoViewModel holds one todo for the dashboard and todo listings.
type TodoViewModel struct {
	Content  string
	Priority string
	Category string
	Status   string
	Due      string
	Overdue  bool
}

// PostCardViewModel holds a post summary for listings.
type PostCardViewModel struct {
	Slug    string
	Title   string
	Excerpt string
	Date    string
	Tags    []string
	Path    string
}

// PostViewModel holds a full post. HTML is sanitized.
type PostViewModel struct {
	PostCardViewModel

	HTML string
}

// BucketCountViewModel is one deadline bucket's size.
type BucketCountViewModel struct {
	Label string
	Count int
}

// DashboardViewModel holds the landing page.
type DashboardViewModel struct {
	Stats        StatsViewModel
	PendingTodos []TodoViewModel
	RecentPosts  []PostCardViewModel
	Progress     ProgressViewModel
	BucketCounts []BucketCountViewModel
}

// BoardItemViewModel holds one open OKR item on the board.
type BoardItemViewModel struct {
	Title             string
	Kind              string
	Priority          string
	Deadline          string
	ObjectiveTitle    string
	ObjectiveProgress int
}

// BoardColumnViewModel is one deadline bucket on the board.
type BoardColumnViewModel struct {
	Key   string
	Label string
	Items []BoardItemViewModel
}

// BoardViewModel holds the OKR board page.
type BoardViewModel struct {
	Columns  []BoardColumnViewModel
	Progress ProgressViewModel
}

// SettingsViewModel holds the settings form.
type SettingsViewModel struct {
	GitHubUsername string
	TrackedRepos   string // one owner/repo per line
	TokenStatus    string
	CSRFToken      string
	Error          string
	Saved          bool
}

// FilterLinkViewModel is one option of a listing filter. Active options
// render as plain text.
type FilterLinkViewModel struct {
	Label  string
	Href   string
	Active bool
}

// TodoColumnViewModel is one status column of the todo kanban.
type TodoColumnViewModel struct {
	Key   string
	Label string
	Items []TodoViewModel
}

// TodosViewModel holds the todo page. View is "list" or "kanban"; Columns
// is only filled for the kanban view.
type TodosViewModel struct {
	View       string
	Views      []FilterLinkViewModel
	Categories []FilterLinkViewModel
	Sorts      []FilterLinkViewModel
	Todos      []TodoViewModel
	Columns    []TodoColumnViewModel
}
