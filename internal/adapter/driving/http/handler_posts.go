package httphandler

import (
	"net/http"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// ListPosts returns all posts, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toPostResponses(h.blog.List(r.Context())))
}

// GetPost returns a post by slug with its rendered HTML.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.writeServiceError(w, "get post", err)
		return
	}

	resp := toPostResponse(post)
	if h.render != nil {
		resp.HTML = h.render(post.Content)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePost creates a post. A missing slug is derived from the title.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.blog.Create(r.Context(), post)
	if err != nil {
		h.writeServiceError(w, "create post", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(created))
}

// UpsertPost creates or replaces the post at the path slug.
func (h *Handler) UpsertPost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Slug = r.PathValue("slug")

	post, err := h.postFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.blog.Upsert(r.Context(), post)
	if err != nil {
		h.writeServiceError(w, "upsert post", err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(saved))
}

func (h *Handler) postFromRequest(req PostRequest) (model.Post, error) {
	var date time.Time
	if req.Date != nil && *req.Date != "" {
		d, err := parseDate(*req.Date, h.loc)
		if err != nil {
			return model.Post{}, err
		}
		date = d
	}

	return model.Post{
		Slug:    req.Slug,
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Content: req.Content,
		Tags:    req.Tags,
		Date:    date,
	}, nil
}
