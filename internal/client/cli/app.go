// Package cli wires the to-do client together and drives the interactive
// command loop.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/todoapp/internal/client/api"
	"github.com/dmitrijs2005/todoapp/internal/client/config"
	"github.com/dmitrijs2005/todoapp/internal/client/services"
	"github.com/dmitrijs2005/todoapp/internal/client/session"
	"github.com/dmitrijs2005/todoapp/internal/client/store"
	"github.com/dmitrijs2005/todoapp/internal/logging"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService services.AuthService
	todoService services.TodoService
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	sm := session.NewManager(session.NewSQLiteRepository(db))
	apiClient := api.NewHTTPClient(c.ServerBaseURL, sm)

	as := services.NewAuthService(apiClient, sm)
	ts := services.NewTodoService(apiClient)

	return &App{
		config:      c,
		logger:      logger,
		authService: as,
		todoService: ts,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.authService.IsLoggedIn(ctx)
}

// Run greets the stored session (if any) and enters the command loop.
// A stored credential is verified against /me up front; a rejected token is
// dropped and the loop starts logged out, exactly as a protected page load
// would bounce to the login view.
func (a *App) Run(ctx context.Context) {
	if a.isLoggedIn(ctx) {
		user, err := a.authService.CurrentUser(ctx)
		if err != nil {
			printlnFn("Your session has expired, please log in again.")
		} else {
			printlnFn("Welcome back, " + user.Username + "!")
			_ = a.List(ctx)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string {
		if a.isLoggedIn(ctx) {
			return "logged in"
		}
		return "logged out"
	}, scanner)
}
