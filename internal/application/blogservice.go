package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// BlogService manages blog posts keyed by slug.
type BlogService struct {
	store  driven.PostStore
	now    func() time.Time
	logger *slog.Logger
}

// NewBlogService creates a BlogService.
func NewBlogService(store driven.PostStore, logger *slog.Logger) *BlogService {
	return &BlogService{store: store, now: time.Now, logger: logger}
}

// List returns all posts newest first. Store failures are logged and yield
// an empty list.
func (s *BlogService) List(ctx context.Context) []model.Post {
	return s.Recent(ctx, 0)
}

// Recent returns up to limit posts newest first; limit <= 0 means all.
func (s *BlogService) Recent(ctx context.Context, limit int) []model.Post {
	posts, err := s.store.List(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list posts", "error", err)
		return []model.Post{}
	}
	return posts
}

// Get returns the post for slug or ErrPostNotFound.
func (s *BlogService) Get(ctx context.Context, slug string) (model.Post, error) {
	post, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return model.Post{}, err
	}
	if post == nil {
		return model.Post{}, driven.ErrPostNotFound
	}
	return *post, nil
}

// Create stores a new post. The slug is derived from the title when empty;
// the date defaults to now.
func (s *BlogService) Create(ctx context.Context, post model.Post) (model.Post, error) {
	post, err := s.normalize(post)
	if err != nil {
		return model.Post{}, err
	}
	if post.Date.IsZero() {
		post.Date = s.now().UTC()
	}

	created, err := s.store.Create(ctx, post)
	if err != nil {
		if errors.Is(err, driven.ErrPostAlreadyExists) {
			return model.Post{}, err
		}
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("post created", "slug", created.Slug)
	return created, nil
}

// Upsert replaces the post with the same slug or creates it. A zero date
// keeps the existing post's date, or is set to now for new posts.
func (s *BlogService) Upsert(ctx context.Context, post model.Post) (model.Post, error) {
	post, err := s.normalize(post)
	if err != nil {
		return model.Post{}, err
	}
	if post.Date.IsZero() {
		existing, err := s.store.GetBySlug(ctx, post.Slug)
		if err != nil {
			return model.Post{}, fmt.Errorf("load post %s: %w", post.Slug, err)
		}
		if existing != nil {
			post.Date = existing.Date
		} else {
			post.Date = s.now().UTC()
		}
	}

	saved, err := s.store.Upsert(ctx, post)
	if err != nil {
		return model.Post{}, fmt.Errorf("upsert post: %w", err)
	}
	return saved, nil
}

// Import upserts every post and returns how many were written. It stops at
// the first failure.
func (s *BlogService) Import(ctx context.Context, posts []model.Post) (int, error) {
	var n int
	for _, p := range posts {
		if _, err := s.Upsert(ctx, p); err != nil {
			return n, fmt.Errorf("import %q: %w", p.Slug, err)
		}
		n++
	}
	s.logger.Info("posts imported", "count", n)
	return n, nil
}

func (s *BlogService) normalize(post model.Post) (model.Post, error) {
	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return model.Post{}, invalidf("title is required")
	}
	post.Slug = strings.TrimSpace(post.Slug)
	if post.Slug == "" {
		post.Slug = model.Slugify(post.Title)
		if post.Slug == "" {
			return model.Post{}, invalidf("title %q yields no slug; set one explicitly", post.Title)
		}
	}
	if !model.ValidSlug(post.Slug) {
		return model.Post{}, invalidf("invalid slug %q", post.Slug)
	}
	post.Tags = uniqueTags(post.Tags)
	return post, nil
}

// uniqueTags trims tags and drops blanks and repeats, keeping first-seen order.
func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
