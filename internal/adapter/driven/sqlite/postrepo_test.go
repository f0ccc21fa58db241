package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

func TestPostRepo_CreateGetList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	older := model.Post{Slug: "hello-world", Title: "Hello World", Content: "# Hi", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := model.Post{Slug: "second", Title: "Second", Tags: []string{"go", "sqlite"}, Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}

	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	posts, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Slug, "newest date first")
	assert.Equal(t, []string{"go", "sqlite"}, posts[0].Tags)
	assert.Equal(t, []string{}, posts[1].Tags)

	recent, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	got, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "# Hi", got.Content)
	assert.True(t, got.Date.Equal(older.Date))

	missing, err := repo.GetBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRepo_CreateDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	post := model.Post{Slug: "dup", Title: "One", Date: time.Now()}
	_, err := repo.Create(ctx, post)
	require.NoError(t, err)

	_, err = repo.Create(ctx, post)
	assert.ErrorIs(t, err, driven.ErrPostAlreadyExists)
}

func TestPostRepo_UpsertBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, model.Post{Slug: "notes", Title: "v1", Date: date})
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, model.Post{Slug: "notes", Title: "v2", Content: "body", Tags: []string{"x"}, Date: date})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Title)

	posts, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1, "upsert must not duplicate the slug")
	assert.Equal(t, "body", posts[0].Content)
	assert.Equal(t, []string{"x"}, posts[0].Tags)
}
