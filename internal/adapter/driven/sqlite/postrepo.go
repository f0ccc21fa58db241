package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PostStore = (*PostRepo)(nil)

// PostRepo is the SQLite implementation of the PostStore port.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new PostRepo backed by the given DB.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// List returns posts by date, newest first. limit <= 0 means no limit.
func (r *PostRepo) List(ctx context.Context, limit int) ([]model.Post, error) {
	q := r.db.read.WithContext(ctx).Order("date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []postRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, 0, len(recs))
	for _, rec := range recs {
		posts = append(posts, toPost(rec))
	}
	return posts, nil
}

// GetBySlug returns the post or (nil, nil) if no post has that slug.
func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var rec postRecord
	err := r.db.read.WithContext(ctx).Where("slug = ?", slug).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", slug, err)
	}
	p := toPost(rec)
	return &p, nil
}

// Create inserts post, failing with ErrPostAlreadyExists if the slug is taken.
func (r *PostRepo) Create(ctx context.Context, post model.Post) (model.Post, error) {
	rec := postRecord{
		Slug:    post.Slug,
		Title:   post.Title,
		Excerpt: post.Excerpt,
		Content: post.Content,
		Tags:    nonNilTags(post.Tags),
		Date:    post.Date.UTC(),
	}

	err := r.db.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&postRecord{}).Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return driven.ErrPostAlreadyExists
		}
		return tx.Create(&rec).Error
	})
	if errors.Is(err, driven.ErrPostAlreadyExists) {
		return model.Post{}, err
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("create post %q: %w", post.Slug, err)
	}
	return toPost(rec), nil
}

// Upsert inserts post or replaces title, excerpt, content, tags and date of
// the post with the same slug.
func (r *PostRepo) Upsert(ctx context.Context, post model.Post) (model.Post, error) {
	var saved postRecord
	err := r.db.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec postRecord
		err := tx.Where("slug = ?", post.Slug).First(&rec).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rec.Slug = post.Slug
		rec.Title = post.Title
		rec.Excerpt = post.Excerpt
		rec.Content = post.Content
		rec.Tags = nonNilTags(post.Tags)
		rec.Date = post.Date.UTC()
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("upsert post %q: %w", post.Slug, err)
	}
	return toPost(saved), nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
