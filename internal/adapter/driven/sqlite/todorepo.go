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
var _ driven.TodoStore = (*TodoRepo)(nil)

// TodoRepo is the SQLite implementation of the TodoStore port.
type TodoRepo struct {
	db *DB
}

// NewTodoRepo creates a new TodoRepo backed by the given DB.
func NewTodoRepo(db *DB) *TodoRepo {
	return &TodoRepo{db: db}
}

// List returns live todos matching filter, newest first.
func (r *TodoRepo) List(ctx context.Context, filter driven.TodoFilter) ([]model.Todo, error) {
	q := r.db.read.WithContext(ctx).Order(newestFirst)
	if filter.Category != "" {
		q = q.Where("category = ?", string(filter.Category))
	}
	if filter.PendingOnly {
		q = q.Where("completed = ?", false)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var recs []todoRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]model.Todo, 0, len(recs))
	for _, rec := range recs {
		todos = append(todos, toTodo(rec))
	}
	return todos, nil
}

// Get returns the todo or (nil, nil) if it is missing or deleted.
func (r *TodoRepo) Get(ctx context.Context, id string) (*model.Todo, error) {
	var rec todoRecord
	err := r.db.read.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %s: %w", id, err)
	}
	t := toTodo(rec)
	return &t, nil
}

// Create inserts todo.
func (r *TodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	rec := fromTodo(todo)
	if err := r.db.write.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return toTodo(rec), nil
}

// Save overwrites the mutable fields of a live todo.
func (r *TodoRepo) Save(ctx context.Context, todo model.Todo) (model.Todo, error) {
	rec := fromTodo(todo)
	res := r.db.write.WithContext(ctx).
		Model(&todoRecord{}).
		Where("id = ?", todo.ID).
		Select("content", "description", "priority", "category", "status", "completed", "due_date", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return model.Todo{}, fmt.Errorf("save todo %s: %w", todo.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Todo{}, driven.ErrTodoNotFound
	}

	var stored todoRecord
	if err := r.db.write.WithContext(ctx).Where("id = ?", todo.ID).First(&stored).Error; err != nil {
		return model.Todo{}, fmt.Errorf("reload todo %s: %w", todo.ID, err)
	}
	return toTodo(stored), nil
}

// Delete soft-deletes the todo.
func (r *TodoRepo) Delete(ctx context.Context, id string) error {
	res := r.db.write.WithContext(ctx).Where("id = ?", id).Delete(&todoRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete todo %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return driven.ErrTodoNotFound
	}
	return nil
}

// Count returns the number of live todos.
func (r *TodoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.read.WithContext(ctx).Model(&todoRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return n, nil
}
