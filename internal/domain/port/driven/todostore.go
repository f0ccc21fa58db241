package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// ErrTodoNotFound indicates the todo does not exist or was deleted.
var ErrTodoNotFound = errors.New("todo not found")

// TodoFilter narrows a todo listing. Zero values match everything.
type TodoFilter struct {
	Category    model.TodoCategory
	PendingOnly bool
	Limit       int
}

// TodoStore defines the driven port for todo persistence. List returns
// todos newest first; Delete is soft.
type TodoStore interface {
	List(ctx context.Context, filter TodoFilter) ([]model.Todo, error)
	Get(ctx context.Context, id string) (*model.Todo, error)
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	Save(ctx context.Context, todo model.Todo) (model.Todo, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
