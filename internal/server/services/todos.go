package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/todoapp/internal/common"
	"github.com/dmitrijs2005/todoapp/internal/server/cache"
	"github.com/dmitrijs2005/todoapp/internal/server/models"
	"github.com/dmitrijs2005/todoapp/internal/server/repositories/todos"
)

const defaultListLimit = 100

// TodoService provides ownership-scoped CRUD over todo items. Reads go
// through an optional Redis cache, collapsed with singleflight so concurrent
// misses for the same owner hit the database once. Mutations invalidate.
type TodoService struct {
	repo  todos.Repository
	cache *cache.TodoCache
	group singleflight.Group
}

func NewTodoService(repo todos.Repository, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: repo, cache: c}
}

// List returns the owner's todos ordered by priority then recency.
// The cache only serves the default window (skip 0, default limit).
func (s *TodoService) List(ctx context.Context, ownerID int64, skip, limit int) ([]*models.Todo, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	cacheable := skip == 0 && limit == defaultListLimit
	if cacheable {
		if cached, ok := s.cache.Get(ctx, ownerID); ok {
			return cached, nil
		}
	}

	// The key carries the window so concurrent calls only collapse when
	// they ask for the same rows.
	key := fmt.Sprintf("%d:%d:%d", ownerID, skip, limit)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.repo.ListByOwner(ctx, ownerID, skip, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %v", err)
	}

	list := v.([]*models.Todo)
	if cacheable {
		s.cache.Set(ctx, ownerID, list)
	}
	return list, nil
}

// Get returns a single todo, scoped to its owner.
func (s *TodoService) Get(ctx context.Context, ownerID, id int64) (*models.Todo, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *TodoService) Create(ctx context.Context, ownerID int64, title, description string, priority int) (*models.Todo, error) {
	if title == "" {
		return nil, common.ErrValidation
	}
	if priority < models.PriorityHigh || priority > models.PriorityLow {
		return nil, common.ErrValidation
	}

	todo := &models.Todo{
		Title:       title,
		Description: description,
		Priority:    priority,
		OwnerID:     ownerID,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %v", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	return created, nil
}

// Update applies a partial patch to the owner's todo. Missing rows surface
// as common.ErrNotFound so the handler can answer 404.
func (s *TodoService) Update(ctx context.Context, ownerID, id int64, patch *models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, common.ErrValidation
	}
	if patch.Priority != nil && (*patch.Priority < models.PriorityHigh || *patch.Priority > models.PriorityLow) {
		return nil, common.ErrValidation
	}

	updated, err := s.repo.Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, ownerID)
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, ownerID)
	return nil
}
