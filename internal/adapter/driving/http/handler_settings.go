package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// GetSettings returns the dashboard settings, creating defaults on first access.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsResponse(h.settings.Get(r.Context())))
}

// UpdateSettings changes the GitHub username and/or tracked repositories.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.settings.Update(r.Context(), model.SettingsPatch{
		GitHubUsername: req.GitHubUsername,
		TrackedRepos:   req.TrackedRepos,
	})
	if err != nil {
		h.writeServiceError(w, "update settings", err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(saved))
}

// GetTokenStatus reports whether a stored or environment token is in use.
func (h *Handler) GetTokenStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTokenStatusResponse(h.settings.TokenStatus(r.Context())))
}

// SetGitHubToken stores an encrypted GitHub token and hot-swaps the client.
func (h *Handler) SetGitHubToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.SetGitHubToken(r.Context(), req.Token); err != nil {
		h.writeServiceError(w, "set github token", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearGitHubToken removes the stored token.
func (h *Handler) ClearGitHubToken(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.ClearGitHubToken(r.Context()); err != nil {
		h.writeServiceError(w, "clear github token", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
