package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// NewTodo is the input for creating a todo. Empty enums take their defaults:
// medium priority and the short-term category.
type NewTodo struct {
	Content     string
	Description string
	Priority    model.Priority
	Category    model.TodoCategory
	DueDate     *time.Time
}

// TodoQuery selects and orders a todo listing.
type TodoQuery struct {
	Category model.TodoCategory
	Sort     model.TodoSort
}

// TodoService manages todos and keeps their status and completed flag in sync.
type TodoService struct {
	store  driven.TodoStore
	logger *slog.Logger
}

// NewTodoService creates a TodoService.
func NewTodoService(store driven.TodoStore, logger *slog.Logger) *TodoService {
	return &TodoService{store: store, logger: logger}
}

// List returns live todos in the requested order. Store failures are logged
// and yield an empty list.
func (s *TodoService) List(ctx context.Context, q TodoQuery) []model.Todo {
	todos, err := s.store.List(ctx, driven.TodoFilter{Category: q.Category})
	if err != nil {
		s.logger.Error("failed to list todos", "error", err)
		return []model.Todo{}
	}
	model.SortTodos(todos, q.Sort)
	return todos
}

// Pending returns up to limit incomplete todos, newest first.
func (s *TodoService) Pending(ctx context.Context, limit int) []model.Todo {
	todos, err := s.store.List(ctx, driven.TodoFilter{PendingOnly: true, Limit: limit})
	if err != nil {
		s.logger.Error("failed to list pending todos", "error", err)
		return []model.Todo{}
	}
	return todos
}

// Create validates and stores a new todo in the todo state.
func (s *TodoService) Create(ctx context.Context, in NewTodo) (model.Todo, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return model.Todo{}, invalidf("content is required")
	}
	priority, err := model.ParsePriority(string(in.Priority))
	if err != nil {
		return model.Todo{}, invalidf("%v", err)
	}
	category, err := model.ParseTodoCategory(string(in.Category))
	if err != nil {
		return model.Todo{}, invalidf("%v", err)
	}

	todo, err := s.store.Create(ctx, model.Todo{
		ID:          uuid.NewString(),
		Content:     content,
		Description: in.Description,
		Priority:    priority,
		Category:    category,
		Status:      model.TodoStatusTodo,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) get(ctx context.Context, id string) (model.Todo, error) {
	todo, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}
	if todo == nil {
		return model.Todo{}, driven.ErrTodoNotFound
	}
	return *todo, nil
}

// Update applies patch to a live todo.
func (s *TodoService) Update(ctx context.Context, id string, patch model.TodoPatch) (model.Todo, error) {
	if err := validateTodoPatch(patch); err != nil {
		return model.Todo{}, err
	}

	todo, err := s.get(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}
	patch.Apply(&todo)
	todo.Content = strings.TrimSpace(todo.Content)

	return s.store.Save(ctx, todo)
}

func validateTodoPatch(p model.TodoPatch) error {
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		return invalidf("content must not be empty")
	}
	if p.Priority != nil {
		if _, err := model.ParsePriority(string(*p.Priority)); err != nil || *p.Priority == "" {
			return invalidf("unknown priority %q", *p.Priority)
		}
	}
	if p.Category != nil {
		if _, err := model.ParseTodoCategory(string(*p.Category)); err != nil || *p.Category == "" {
			return invalidf("unknown category %q", *p.Category)
		}
	}
	if p.Status != nil {
		if _, err := model.ParseTodoStatus(string(*p.Status)); err != nil || *p.Status == "" {
			return invalidf("unknown status %q", *p.Status)
		}
	}
	return nil
}

// Toggle sets the todo's completed flag, moving its status accordingly.
func (s *TodoService) Toggle(ctx context.Context, id string, completed bool) (model.Todo, error) {
	todo, err := s.get(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}
	todo.SetCompleted(completed)
	return s.store.Save(ctx, todo)
}

// Delete soft-deletes the todo.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
