// Package server initializes and runs the API server. It opens the
// database, applies migrations, wires services behind the HTTP router,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/todoapp/internal/dbx"
	"github.com/dmitrijs2005/todoapp/internal/logging"
	"github.com/dmitrijs2005/todoapp/internal/server/cache"
	"github.com/dmitrijs2005/todoapp/internal/server/config"
	"github.com/dmitrijs2005/todoapp/internal/server/httpapi"
	"github.com/dmitrijs2005/todoapp/internal/server/migrations"
	todosrepo "github.com/dmitrijs2005/todoapp/internal/server/repositories/todos"
	usersrepo "github.com/dmitrijs2005/todoapp/internal/server/repositories/users"
	"github.com/dmitrijs2005/todoapp/internal/server/services"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	cache  *cache.TodoCache
	server *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, err
	}

	todoCache, err := cache.New(ctx, cfg.RedisURL, cfg.CacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	usersRepoFor := func(h dbx.DBTX) usersrepo.Repository {
		return usersrepo.NewPostgresRepository(h)
	}
	userService := services.NewUserService(db, usersRepoFor, cfg)
	todoService := services.NewTodoService(todosrepo.NewPostgresRepository(db), todoCache)

	handler := httpapi.NewHandler(userService, todoService, logger)
	server := &http.Server{
		Addr:         cfg.EndpointAddrHTTP,
		Handler:      handler.NewRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &App{config: cfg, logger: logger, db: db, cache: todoCache, server: server}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.server.Shutdown(shutdownCtx)
}

func (app *App) Close() error {
	if err := app.cache.Close(); err != nil {
		return err
	}
	return app.db.Close()
}
