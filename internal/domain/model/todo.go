package model

import (
	"fmt"
	"slices"
	"time"
)

// Todo is a single task. Completed and Status are kept in sync: a todo is
// completed exactly when its status is done.
type Todo struct {
	ID          string
	Content     string
	Description string
	Priority    Priority
	Category    TodoCategory
	Status      TodoStatus
	Completed   bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch is a partial update. When both Status and Completed are set,
// Status wins and Completed is derived from it.
type TodoPatch struct {
	Content      *string
	Description  *string
	Priority     *Priority
	Category     *TodoCategory
	Status       *TodoStatus
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
}

// StatusForCompletion returns the status a todo moves to when its completed
// flag is set. Un-completing keeps in-progress work in progress.
func StatusForCompletion(completed bool, current TodoStatus) TodoStatus {
	if completed {
		return TodoStatusDone
	}
	if current == TodoStatusInProgress {
		return TodoStatusInProgress
	}
	return TodoStatusTodo
}

// SetCompleted applies the completion rule to t.
func (t *Todo) SetCompleted(completed bool) {
	t.Status = StatusForCompletion(completed, t.Status)
	t.Completed = completed
}

// SetStatus moves t to status and syncs the completed flag.
func (t *Todo) SetStatus(status TodoStatus) {
	t.Status = status
	t.Completed = status == TodoStatusDone
}

// Apply copies the set fields of p onto t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		d := *p.DueDate
		t.DueDate = &d
	}
	switch {
	case p.Status != nil:
		t.SetStatus(*p.Status)
	case p.Completed != nil:
		t.SetCompleted(*p.Completed)
	}
}

// TodoSort selects the ordering of a todo list.
type TodoSort string

const (
	TodoSortDate     TodoSort = "date"
	TodoSortPriority TodoSort = "priority"
	TodoSortStatus   TodoSort = "status"
)

// ParseTodoSort validates s. The empty string yields TodoSortDate.
func ParseTodoSort(s string) (TodoSort, error) {
	switch TodoSort(s) {
	case "":
		return TodoSortDate, nil
	case TodoSortDate, TodoSortPriority, TodoSortStatus:
		return TodoSort(s), nil
	}
	return "", fmt.Errorf("unknown todo sort %q", s)
}

// SortTodos orders todos in place. Date is newest first, priority is high to
// low, status is in-progress, todo, then done. Ties keep their input order.
func SortTodos(todos []Todo, by TodoSort) {
	slices.SortStableFunc(todos, func(a, b Todo) int {
		switch by {
		case TodoSortPriority:
			return a.Priority.rank() - b.Priority.rank()
		case TodoSortStatus:
			return a.Status.rank() - b.Status.rank()
		default:
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	})
}
