package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todoapp/internal/client/api"
	"github.com/dmitrijs2005/todoapp/internal/client/models"
	"github.com/dmitrijs2005/todoapp/internal/common"
)

// TodoService manages the to-do list: full CRUD plus a client-side
// substring filter over an in-memory snapshot of the last server response.
//
// The snapshot is only ever replaced wholesale; mutations re-fetch the full
// list on success so the local copy never drifts from server state.
type TodoService interface {
	Load(ctx context.Context) ([]models.Todo, error)
	Snapshot() []models.Todo
	Add(ctx context.Context, title, description string, priority int) error
	Toggle(ctx context.Context, id int64, completed bool) error
	Delete(ctx context.Context, id int64, confirm func() bool) (bool, error)
	Filter(term string) []models.Todo
}

type todoService struct {
	client   api.Client
	snapshot []models.Todo
}

func NewTodoService(client api.Client) TodoService {
	return &todoService{client: client}
}

// Load fetches the full list and replaces the snapshot. On failure the
// previous snapshot is kept untouched.
func (s *todoService) Load(ctx context.Context) ([]models.Todo, error) {
	todos, err := s.client.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading todos: %w", err)
	}
	s.snapshot = todos
	return todos, nil
}

// Snapshot returns the current in-memory copy of the list.
func (s *todoService) Snapshot() []models.Todo {
	return s.snapshot
}

// Add creates a new item. An empty (or whitespace-only) title is rejected
// locally without a network call. On success the list is re-fetched.
func (s *todoService) Add(ctx context.Context, title, description string, priority int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if priority != 0 && (priority < models.PriorityHigh || priority > models.PriorityLow) {
		return fmt.Errorf("%w: priority must be between 1 and 3", common.ErrValidation)
	}

	todo := models.NewTodo{Title: title, Description: description, Priority: priority}
	if err := s.client.CreateTodo(ctx, todo); err != nil {
		return err
	}

	_, err := s.Load(ctx)
	return err
}

// Toggle sends the complement of the current completed flag as a partial
// update, then re-fetches the list. The local copy is never flipped
// optimistically.
func (s *todoService) Toggle(ctx context.Context, id int64, completed bool) error {
	next := !completed
	if err := s.client.UpdateTodo(ctx, id, models.TodoPatch{Completed: &next}); err != nil {
		return err
	}

	_, err := s.Load(ctx)
	return err
}

// Delete removes an item after an explicit confirmation. When confirm
// declines, no request is issued and the snapshot is left unchanged; the
// first return value reports whether the deletion happened.
func (s *todoService) Delete(ctx context.Context, id int64, confirm func() bool) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}

	if err := s.client.DeleteTodo(ctx, id); err != nil {
		return false, err
	}

	_, err := s.Load(ctx)
	return true, err
}

// Filter returns the items whose title or description contains term,
// case-insensitively, evaluated against the snapshot at call time. An empty
// term returns the full snapshot.
func (s *todoService) Filter(term string) []models.Todo {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.snapshot
	}

	filtered := make([]models.Todo, 0, len(s.snapshot))
	for _, t := range s.snapshot {
		if strings.Contains(strings.ToLower(t.Title), term) ||
			strings.Contains(strings.ToLower(t.Description), term) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
