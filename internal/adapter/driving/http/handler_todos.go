package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/mydashboard/internal/application"
	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// ListTodos returns live todos. Query parameters: category (short-term or
// future-aims) and sort (date, priority or status).
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var category model.TodoCategory
	if raw := q.Get("category"); raw != "" {
		c, err := model.ParseTodoCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = c
	}

	sortBy, err := model.ParseTodoSort(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos := h.todos.List(r.Context(), application.TodoQuery{Category: category, Sort: sortBy})
	writeJSON(w, http.StatusOK, toTodoResponses(todos))
}

// CreateTodo creates a todo in the todo state.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	due, err := parseDatePtr(req.DueDate, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.todos.Create(r.Context(), application.NewTodo{
		Content:     req.Content,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Category:    model.TodoCategory(req.Category),
		DueDate:     due,
	})
	if err != nil {
		h.writeServiceError(w, "create todo", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTodoResponse(todo))
}

// UpdateTodo applies a partial update. Status wins over completed when both
// are given; either keeps the other in sync.
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req PatchTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := req.toPatch(h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.todos.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.writeServiceError(w, "update todo", err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

// ToggleTodo sets a todo's completed flag to the requested value.
func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	var req ToggleTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Completed == nil {
		writeError(w, http.StatusBadRequest, "completed is required")
		return
	}

	todo, err := h.todos.Toggle(r.Context(), r.PathValue("id"), *req.Completed)
	if err != nil {
		h.writeServiceError(w, "toggle todo", err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

// DeleteTodo soft-deletes a todo.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.todos.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "delete todo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
