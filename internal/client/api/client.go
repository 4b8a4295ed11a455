// Package api implements the HTTP client for the to-do service. It owns the
// authenticated-request helper (JSON content type plus bearer header when a
// credential exists) and maps transport and API failures to sentinel errors
// the services layer can match on.
package api

import (
	"context"

	"github.com/dmitrijs2005/todoapp/internal/client/models"
)

// TokenSource supplies the stored bearer credential. It is read at the start
// of every request and never mutated mid-request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the remote API surface used by the services layer.
type Client interface {
	Signup(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context) (*models.User, error)
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, todo models.NewTodo) error
	UpdateTodo(ctx context.Context, id int64, patch models.TodoPatch) error
	DeleteTodo(ctx context.Context, id int64) error
}
