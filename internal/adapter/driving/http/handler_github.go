package httphandler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// refreshTimeout bounds a synchronous stats refresh.
const refreshTimeout = 30 * time.Second

// GitHubUser returns activity stats for ?username=. Lookup failures yield
// zero counts; the configured user's numbers live in /github/stats.
func (h *Handler) GitHubUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	writeJSON(w, http.StatusOK, toUserStatsResponse(h.stats.UserStats(r.Context(), username)))
}

// GitHubRepo returns stats for ?owner=&repo=.
func (h *Handler) GitHubRepo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, name := strings.TrimSpace(q.Get("owner")), strings.TrimSpace(q.Get("repo"))
	if owner == "" || name == "" {
		writeError(w, http.StatusBadRequest, "owner and repo are required")
		return
	}

	repo, err := h.stats.RepoStats(r.Context(), owner+"/"+name)
	if err != nil {
		h.writeGitHubError(w, "fetch repo stats", err)
		return
	}

	writeJSON(w, http.StatusOK, toRepoStatsResponse(repo))
}

// GitHubCalendar returns the contribution calendar for ?username=.
func (h *Handler) GitHubCalendar(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	cal, err := h.stats.Calendar(r.Context(), username)
	if err != nil {
		h.writeGitHubError(w, "fetch contribution calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, toCalendarResponse(cal))
}

// GitHubStats returns the latest background-refreshed snapshot.
func (h *Handler) GitHubStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatsSnapshotResponse(h.stats.Snapshot()))
}

// RefreshGitHubStats runs a refresh and returns the resulting snapshot.
func (h *Handler) RefreshGitHubStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	if err := h.stats.Refresh(ctx); err != nil {
		h.logger.Error("stats refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toStatsSnapshotResponse(h.stats.Snapshot()))
}

// writeGitHubError reports upstream failures that are neither validation nor
// not-found errors as 502.
func (h *Handler) writeGitHubError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, application.ErrValidation),
		errors.Is(err, driven.ErrRepoNotFound),
		errors.Is(err, driven.ErrUserNotFound),
		errors.Is(err, driven.ErrTokenRequired):
		h.writeServiceError(w, op, err)
	default:
		h.logger.Warn("github request failed", "op", op, "error", err)
		writeError(w, http.StatusBadGateway, "github request failed")
	}
}
