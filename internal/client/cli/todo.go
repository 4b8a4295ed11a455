package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todoapp/internal/client/models"
	"github.com/dmitrijs2005/todoapp/internal/client/view"
	"github.com/dmitrijs2005/todoapp/internal/common"
)

// render writes the given todos (snapshot or filtered view) to the output.
func (a *App) render(todos []models.Todo) error {
	return view.WriteList(a.out, view.NewListModel(todos))
}

// List fetches the full to-do list and renders it. No protected request is
// issued when the session check fails.
func (a *App) List(ctx context.Context) error {
	if !a.authService.RequireLogin(ctx) {
		printlnFn("Please log in first.")
		return nil
	}

	printlnFn("Loading...")
	todos, err := a.todoService.Load(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			a.forceLogout(ctx)
			return err
		}
		a.reportError(ctx, err)
		return err
	}

	return a.render(todos)
}

// Add prompts for a new item and creates it. An empty title is rejected
// before any request; on failure the collected input is echoed back so the
// user can retry.
func (a *App) Add(ctx context.Context) error {
	if !a.authService.RequireLogin(ctx) {
		printlnFn("Please log in first.")
		return nil
	}

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}
	priorityText, err := getSimpleText(a.reader, "Enter priority: 1 high, 2 medium, 3 low (default 2)", a.out)
	if err != nil {
		return err
	}

	priority := 0
	if priorityText != "" {
		priority, err = strconv.Atoi(priorityText)
		if err != nil {
			printlnFn("Priority must be a number between 1 and 3.")
			return err
		}
	}

	if err := a.todoService.Add(ctx, title, description, priority); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			a.forceLogout(ctx)
			return err
		}
		a.reportError(ctx, err)
		return err
	}

	printlnFn("Added.")
	return a.render(a.todoService.Snapshot())
}

// findTodo looks up an item in the current snapshot by id.
func (a *App) findTodo(id int64) (models.Todo, bool) {
	for _, t := range a.todoService.Snapshot() {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}

func parseID(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Toggle flips the completion state of the given item. The new state is the
// complement of the snapshot's current flag; the list only changes after
// the server confirms and the reload completes.
func (a *App) Toggle(ctx context.Context, args []string) error {
	if !a.authService.RequireLogin(ctx) {
		printlnFn("Please log in first.")
		return nil
	}

	id, ok := parseID(args)
	if !ok {
		printlnFn("Usage: done <id>")
		return nil
	}

	todo, found := a.findTodo(id)
	if !found {
		printlnFn("No todo with id", id)
		return nil
	}

	if err := a.todoService.Toggle(ctx, id, todo.Completed); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			a.forceLogout(ctx)
			return err
		}
		a.reportError(ctx, err)
		return err
	}

	return a.render(a.todoService.Snapshot())
}

// Delete removes an item after an explicit confirmation prompt. Declining
// issues no request and leaves the list unchanged.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.authService.RequireLogin(ctx) {
		printlnFn("Please log in first.")
		return nil
	}

	id, ok := parseID(args)
	if !ok {
		printlnFn("Usage: delete <id>")
		return nil
	}

	todo, found := a.findTodo(id)
	if !found {
		printlnFn("No todo with id", id)
		return nil
	}

	deleted, err := a.todoService.Delete(ctx, id, func() bool {
		return Confirm(a.reader, "Delete \""+todo.Title+"\"?", a.out)
	})
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			a.forceLogout(ctx)
			return err
		}
		a.reportError(ctx, err)
		return err
	}
	if !deleted {
		printlnFn("Cancelled.")
		return nil
	}

	return a.render(a.todoService.Snapshot())
}

// Search filters the in-memory snapshot by a case-insensitive substring
// over title and description. No request is made; an empty term shows the
// full snapshot.
func (a *App) Search(ctx context.Context, args []string) error {
	if !a.authService.RequireLogin(ctx) {
		printlnFn("Please log in first.")
		return nil
	}

	term := strings.Join(args, " ")
	return a.render(a.todoService.Filter(term))
}
