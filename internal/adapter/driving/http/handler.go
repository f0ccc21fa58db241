package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	settings  *application.SettingsService
	okr       *application.OKRService
	todos     *application.TodoService
	blog      *application.BlogService
	stats     *application.StatsService
	dashboard *application.DashboardService
	loc       *time.Location
	render    func(string) string
	now       func() time.Time
	logger    *slog.Logger
}

// NewHandler creates a Handler. loc resolves date-only inputs and anchors
// "today" for the deadline board; render turns post markdown into HTML.
func NewHandler(
	settings *application.SettingsService,
	okr *application.OKRService,
	todos *application.TodoService,
	blog *application.BlogService,
	stats *application.StatsService,
	dashboard *application.DashboardService,
	loc *time.Location,
	render func(string) string,
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
		stats:     stats,
		dashboard: dashboard,
		loc:       loc,
		render:    render,
		now:       time.Now,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/settings", h.GetSettings)
	mux.HandleFunc("PUT /api/v1/settings", h.UpdateSettings)
	mux.HandleFunc("GET /api/v1/settings/github-token", h.GetTokenStatus)
	mux.HandleFunc("PUT /api/v1/settings/github-token", h.SetGitHubToken)
	mux.HandleFunc("DELETE /api/v1/settings/github-token", h.ClearGitHubToken)

	mux.HandleFunc("GET /api/v1/objectives", h.ListObjectives)
	mux.HandleFunc("POST /api/v1/objectives", h.CreateObjective)
	mux.HandleFunc("GET /api/v1/objectives/{id}", h.GetObjective)
	mux.HandleFunc("PATCH /api/v1/objectives/{id}", h.UpdateObjective)
	mux.HandleFunc("POST /api/v1/objectives/{id}/toggle", h.ToggleObjective)
	mux.HandleFunc("DELETE /api/v1/objectives/{id}", h.DeleteObjective)
	mux.HandleFunc("POST /api/v1/objectives/{id}/key-results", h.CreateKeyResult)
	mux.HandleFunc("PATCH /api/v1/key-results/{id}", h.UpdateKeyResult)
	mux.HandleFunc("POST /api/v1/key-results/{id}/toggle", h.ToggleKeyResult)
	mux.HandleFunc("DELETE /api/v1/key-results/{id}", h.DeleteKeyResult)
	mux.HandleFunc("GET /api/v1/okr/board", h.GetBoard)

	mux.HandleFunc("GET /api/v1/todos", h.ListTodos)
	mux.HandleFunc("POST /api/v1/todos", h.CreateTodo)
	mux.HandleFunc("PATCH /api/v1/todos/{id}", h.UpdateTodo)
	mux.HandleFunc("POST /api/v1/todos/{id}/toggle", h.ToggleTodo)
	mux.HandleFunc("DELETE /api/v1/todos/{id}", h.DeleteTodo)

	mux.HandleFunc("GET /api/v1/posts", h.ListPosts)
	mux.HandleFunc("POST /api/v1/posts", h.CreatePost)
	mux.HandleFunc("GET /api/v1/posts/{slug}", h.GetPost)
	mux.HandleFunc("PUT /api/v1/posts/{slug}", h.UpsertPost)

	mux.HandleFunc("GET /api/v1/github/user", h.GitHubUser)
	mux.HandleFunc("GET /api/v1/github/repo", h.GitHubRepo)
	mux.HandleFunc("GET /api/v1/github/calendar", h.GitHubCalendar)
	mux.HandleFunc("GET /api/v1/github/stats", h.GitHubStats)
	mux.HandleFunc("POST /api/v1/github/refresh", h.RefreshGitHubStats)

	mux.HandleFunc("GET /api/v1/dashboard", h.Dashboard)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps handler with recovery and request logging.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, handler)
	return loggingMiddleware(logger, wrapped)
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   formatTime(h.now()),
	})
}

// today is the current instant in the dashboard's time zone.
func (h *Handler) today() time.Time {
	return h.now().In(h.loc)
}

// writeServiceError maps a service error onto a status code. Unknown errors
// are logged and reported as a generic 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, application.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, driven.ErrObjectiveNotFound),
		errors.Is(err, driven.ErrKeyResultNotFound),
		errors.Is(err, driven.ErrTodoNotFound),
		errors.Is(err, driven.ErrPostNotFound),
		errors.Is(err, driven.ErrRepoNotFound),
		errors.Is(err, driven.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, driven.ErrPostAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, driven.ErrTokenRequired),
		errors.Is(err, driven.ErrEncryptionKeyNotSet):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
