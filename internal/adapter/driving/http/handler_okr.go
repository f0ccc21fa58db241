package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// ListObjectives returns live objectives with their key results, newest first.
func (h *Handler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	objectives := h.okr.ListObjectives(r.Context())

	resp := make([]ObjectiveResponse, 0, len(objectives))
	for _, o := range objectives {
		resp = append(resp, toObjectiveResponse(o))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetObjective returns a single objective.
func (h *Handler) GetObjective(w http.ResponseWriter, r *http.Request) {
	o, err := h.okr.GetObjective(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "get objective", err)
		return
	}

	writeJSON(w, http.StatusOK, toObjectiveResponse(o))
}

// CreateObjective creates an objective.
func (h *Handler) CreateObjective(w http.ResponseWriter, r *http.Request) {
	var req CreateObjectiveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deadline, err := parseDatePtr(req.Deadline, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.okr.CreateObjective(r.Context(), application.NewObjective{
		Title:    req.Title,
		Why:      req.Why,
		How:      req.How,
		What:     req.What,
		Deadline: deadline,
	})
	if err != nil {
		h.writeServiceError(w, "create objective", err)
		return
	}

	writeJSON(w, http.StatusCreated, toObjectiveResponse(o))
}

// UpdateObjective applies a partial update. A null deadline clears it.
func (h *Handler) UpdateObjective(w http.ResponseWriter, r *http.Request) {
	var req PatchObjectiveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := req.toPatch(h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.okr.UpdateObjective(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.writeServiceError(w, "update objective", err)
		return
	}

	writeJSON(w, http.StatusOK, toObjectiveResponse(o))
}

// ToggleObjective flips an objective's completed flag.
func (h *Handler) ToggleObjective(w http.ResponseWriter, r *http.Request) {
	o, err := h.okr.ToggleObjective(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "toggle objective", err)
		return
	}

	writeJSON(w, http.StatusOK, toObjectiveResponse(o))
}

// DeleteObjective soft-deletes an objective.
func (h *Handler) DeleteObjective(w http.ResponseWriter, r *http.Request) {
	if err := h.okr.DeleteObjective(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "delete objective", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateKeyResult adds a key result to an objective.
func (h *Handler) CreateKeyResult(w http.ResponseWriter, r *http.Request) {
	var req CreateKeyResultRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deadline, err := parseDatePtr(req.Deadline, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kr, err := h.okr.CreateKeyResult(r.Context(), r.PathValue("id"), application.NewKeyResult{
		Title:    req.Title,
		Priority: model.Priority(req.Priority),
		Deadline: deadline,
	})
	if err != nil {
		h.writeServiceError(w, "create key result", err)
		return
	}

	writeJSON(w, http.StatusCreated, toKeyResultResponse(kr))
}

// UpdateKeyResult applies a partial update to a key result.
func (h *Handler) UpdateKeyResult(w http.ResponseWriter, r *http.Request) {
	var req PatchKeyResultRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := req.toPatch(h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kr, err := h.okr.UpdateKeyResult(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.writeServiceError(w, "update key result", err)
		return
	}

	writeJSON(w, http.StatusOK, toKeyResultResponse(kr))
}

// ToggleKeyResult flips a key result's completed flag.
func (h *Handler) ToggleKeyResult(w http.ResponseWriter, r *http.Request) {
	kr, err := h.okr.ToggleKeyResult(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "toggle key result", err)
		return
	}

	writeJSON(w, http.StatusOK, toKeyResultResponse(kr))
}

// DeleteKeyResult soft-deletes a key result.
func (h *Handler) DeleteKeyResult(w http.ResponseWriter, r *http.Request) {
	if err := h.okr.DeleteKeyResult(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "delete key result", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBoard returns open OKR items bucketed by deadline, plus overall progress.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toBoardResponse(h.okr.Board(r.Context(), h.today())))
}
