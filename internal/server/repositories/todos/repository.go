// Package todos provides persistence for todo items.
package todos

import (
	"context"

	"github.com/dmitrijs2005/todoapp/internal/server/models"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]*models.Todo, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	Update(ctx context.Context, id, ownerID int64, patch *models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id, ownerID int64) error
}
