package model

import "fmt"

// Priority ranks key results and todos.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates s. The empty string yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// rank orders priorities high to low for sorting.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// TodoStatus is the workflow state of a todo.
type TodoStatus string

const (
	TodoStatusTodo       TodoStatus = "todo"
	TodoStatusInProgress TodoStatus = "in-progress"
	TodoStatusDone       TodoStatus = "done"
)

// ParseTodoStatus validates s. The empty string yields TodoStatusTodo.
func ParseTodoStatus(s string) (TodoStatus, error) {
	switch TodoStatus(s) {
	case "":
		return TodoStatusTodo, nil
	case TodoStatusTodo, TodoStatusInProgress, TodoStatusDone:
		return TodoStatus(s), nil
	}
	return "", fmt.Errorf("unknown todo status %q", s)
}

func (s TodoStatus) rank() int {
	switch s {
	case TodoStatusInProgress:
		return 0
	case TodoStatusTodo:
		return 1
	case TodoStatusDone:
		return 2
	}
	return 3
}

// TodoCategory separates near-term tasks from longer-horizon aims.
type TodoCategory string

const (
	TodoCategoryShortTerm  TodoCategory = "short-term"
	TodoCategoryFutureAims TodoCategory = "future-aims"
)

// ParseTodoCategory validates s. The empty string yields TodoCategoryShortTerm.
func ParseTodoCategory(s string) (TodoCategory, error) {
	switch TodoCategory(s) {
	case "":
		return TodoCategoryShortTerm, nil
	case TodoCategoryShortTerm, TodoCategoryFutureAims:
		return TodoCategory(s), nil
	}
	return "", fmt.Errorf("unknown todo category %q", s)
}
