package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/todoapp/internal/client/api"
	"github.com/dmitrijs2005/todoapp/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// reportError presents a failure to the user according to its kind:
// validation messages and server-provided details verbatim, transport
// failures as a generic connectivity notice. A 401 is special-cased by the
// callers (forced logout), not here.
func (a *App) reportError(ctx context.Context, err error) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, common.ErrValidation):
		printlnFn(err.Error())
	case errors.Is(err, common.ErrServerUnavailable):
		a.logger.Error(ctx, "request failed", "error", err)
		printlnFn("Could not reach the server. Please try again.")
	case errors.As(err, &apiErr):
		printlnFn(apiErr.Error())
	default:
		printlnFn("Error:", err.Error())
	}
}

// forceLogout drops the stored credential after a 401: a stale token cannot
// be repaired in place, so the session ends without an error block.
func (a *App) forceLogout(ctx context.Context) {
	_ = a.authService.Logout(ctx)
	printlnFn("Your session has expired, please log in again.")
}

// Signup prompts for account details and creates a new account. The
// password and its confirmation must match before anything is sent.
func (a *App) Signup(ctx context.Context) error {
	reader := a.reader

	username, err := getSimpleText(reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Signup(ctx, username, email, password, confirm); err != nil {
		a.reportError(ctx, err)
		return err
	}

	printlnFn("Account created! You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates. On success the token is
// stored and the command set switches to the logged-in view.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			printlnFn("Login failed: invalid username or password.")
			return err
		}
		a.reportError(ctx, err)
		return err
	}

	printlnFn("Logged in.")
	return a.List(ctx)
}

// Whoami shows the account behind the stored token.
func (a *App) Whoami(ctx context.Context) error {
	if !a.authService.RequireLogin(ctx) {
		printlnFn("Please log in first.")
		return nil
	}

	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		// CurrentUser already dropped the token, whatever the failure was.
		printlnFn("Your session has expired, please log in again.")
		return err
	}

	printlnFn("Logged in as " + user.Username + " <" + user.Email + ">")
	return nil
}

// Logout removes the stored credential.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.reportError(ctx, err)
		return err
	}
	printlnFn("Logged out.")
	return nil
}
