// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/mydashboard/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/mydashboard/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	settings  *application.SettingsService
	okr       *application.OKRService
	todos     *application.TodoService
	blog      *application.BlogService
	dashboard *application.DashboardService
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	settings *application.SettingsService,
	okr *application.OKRService,
	todos *application.TodoService,
	blog *application.BlogService,
	dashboard *application.DashboardService,
	loc *time.Location,
	logger *slog.Logger,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		settings:  settings,
		okr:       okr,
		todos:     todos,
		blog:      blog,
		dashboard: dashboard,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

// Dashboard renders the landing page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.loc)
	summary := h.dashboard.Summary(r.Context(), now)
	h.render(w, r, http.StatusOK, "Dashboard", pages.Dashboard(toDashboardViewModel(summary, now)))
}

// Board renders the OKR deadline board.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	board := h.okr.Board(r.Context(), h.now().In(h.loc))
	h.render(w, r, http.StatusOK, "OKRs", pages.Board(toBoardViewModel(board, h.loc)))
}

// Todos renders the todo page. Query parameters: view (list or kanban),
// category (short-term or future-aims) and sort (date, priority or status).
func (h *Handler) Todos(w http.ResponseWriter, r *http.Request) {
	q, err := parseTodoPageQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	todos := h.todos.List(r.Context(), application.TodoQuery{Category: q.category, Sort: q.sort})
	h.render(w, r, http.StatusOK, "Todos", pages.Todos(toTodosViewModel(q, todos, h.now().In(h.loc))))
}

// BlogIndex renders the post listing.
func (h *Handler) BlogIndex(w http.ResponseWriter, r *http.Request) {
	posts := h.blog.List(r.Context())
	h.render(w, r, http.StatusOK, "Blog", pages.BlogIndex(toPostCardViewModels(posts, h.loc)))
}

// Post renders a single post with its markdown converted to sanitized HTML.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	post, err := h.blog.Get(r.Context(), slug)
	if errors.Is(err, driven.ErrPostNotFound) {
		h.render(w, r, http.StatusNotFound, "Not found", pages.NotFound("Post "+slug))
		return
	}
	if err != nil {
		h.logger.Error("failed to load post", "slug", slug, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, post.Title, pages.Post(toPostViewModel(post, h.loc)))
}

// Settings renders the settings form.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	form := toSettingsViewModel(h.settings.Get(r.Context()), h.settings.TokenStatus(r.Context()), token, h.loc)
	form.Saved = r.URL.Query().Get("saved") == "1"
	h.render(w, r, http.StatusOK, "Settings", pages.Settings(form))
}

// SaveSettings handles the settings form post. Validation errors re-render
// the form with the submitted values.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	username := r.FormValue("github_username")
	repos := parseRepoList(r.FormValue("tracked_repos"))

	_, err := h.settings.Update(r.Context(), model.SettingsPatch{
		GitHubUsername: &username,
		TrackedRepos:   &repos,
	})
	if errors.Is(err, application.ErrValidation) {
		form := toSettingsViewModel(
			model.Settings{GitHubUsername: username, TrackedRepos: repos},
			h.settings.TokenStatus(r.Context()), csrfToken(w, r), h.loc,
		)
		form.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, "Settings", pages.Settings(form))
		return
	}
	if err != nil {
		h.logger.Error("failed to save settings", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}
