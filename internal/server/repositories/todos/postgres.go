package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapp/internal/common"
	"github.com/dmitrijs2005/todoapp/internal/dbx"
	"github.com/dmitrijs2005/todoapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]*models.Todo, error) {
	query :=
		`SELECT id, title, description, completed, priority, created_at, owner_id FROM todos
		 WHERE owner_id = $1
		 ORDER BY priority ASC, created_at DESC
		 OFFSET $2 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed,
			&todo.Priority, &todo.CreatedAt, &todo.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.Todo, error) {
	query :=
		`SELECT id, title, description, completed, priority, created_at, owner_id FROM todos
		 WHERE id = $1 AND owner_id = $2
		 `

	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&todo.ID, &todo.Title,
		&todo.Description, &todo.Completed, &todo.Priority, &todo.CreatedAt, &todo.OwnerID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todos (title, description, completed, priority, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Completed, todo.Priority, todo.OwnerID).
		Scan(&todo.ID, &todo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

// Update applies a partial patch. COALESCE keeps the stored value for every
// field the patch leaves nil.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID int64, patch *models.TodoPatch) (*models.Todo, error) {
	query :=
		`UPDATE todos SET
		   title = COALESCE($3, title),
		   description = COALESCE($4, description),
		   completed = COALESCE($5, completed),
		   priority = COALESCE($6, priority)
		 WHERE id = $1 AND owner_id = $2
		 RETURNING id, title, description, completed, priority, created_at, owner_id
		 `

	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID,
		patch.Title, patch.Description, patch.Completed, patch.Priority).
		Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed,
			&todo.Priority, &todo.CreatedAt, &todo.OwnerID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID int64) error {
	query :=
		`DELETE FROM todos
		 WHERE id = $1 AND owner_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
