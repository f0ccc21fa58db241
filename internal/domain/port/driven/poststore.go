package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// Sentinel errors returned by PostStore implementations.
var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostAlreadyExists = errors.New("post already exists")
)

// PostStore defines the driven port for blog post persistence.
// List returns posts by date, newest first, capped at limit when limit > 0.
// GetBySlug returns (nil, nil) when the slug is unknown.
type PostStore interface {
	List(ctx context.Context, limit int) ([]model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	// Create returns ErrPostAlreadyExists when the slug is taken.
	Create(ctx context.Context, post model.Post) (model.Post, error)
	// Upsert inserts the post or replaces the post with the same slug.
	Upsert(ctx context.Context, post model.Post) (model.Post, error)
}
