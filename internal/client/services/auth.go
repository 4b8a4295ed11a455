// Package services contains the application services for the to-do client:
// authentication (credential lifecycle) and the to-do list itself.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/todoapp/internal/client/api"
	"github.com/dmitrijs2005/todoapp/internal/client/models"
	"github.com/dmitrijs2005/todoapp/internal/client/session"
	"github.com/dmitrijs2005/todoapp/internal/common"
)

// AuthService defines the authentication operations for the CLI.
//
// Contract:
//   - Signup: create an account; passwords must match before any network call.
//   - Login: authenticate and persist the issued token.
//   - Logout: drop the stored token.
//   - CurrentUser: fetch the account behind the stored token; any failure
//     forces a logout (fail-closed).
//   - IsLoggedIn / RequireLogin: presence of a stored token is the sole
//     "logged in" signal.
type AuthService interface {
	Signup(ctx context.Context, username, email, password, confirm string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	IsLoggedIn(ctx context.Context) bool
	RequireLogin(ctx context.Context) bool
}

type authService struct {
	client  api.Client
	session *session.Manager
}

// NewAuthService constructs an AuthService bound to the given API client and
// session manager.
func NewAuthService(client api.Client, sm *session.Manager) AuthService {
	return &authService{client: client, session: sm}
}

// Signup creates a new account. The password/confirmation match is checked
// locally; on mismatch no request is sent.
func (a *authService) Signup(ctx context.Context, username, email, password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}
	if err := a.client.Signup(ctx, username, email, password); err != nil {
		return err
	}
	return nil
}

// Login authenticates and stores the issued token. The token is persisted
// only after a successful response, so a failed login never leaves a
// partial credential behind.
func (a *authService) Login(ctx context.Context, username, password string) error {
	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.session.SetToken(ctx, token); err != nil {
		return fmt.Errorf("login succeeded but token could not be stored: %w", err)
	}
	return nil
}

// Logout removes the stored credential. Called both explicitly by the user
// and implicitly whenever a protected request is rejected with 401.
func (a *authService) Logout(ctx context.Context) error {
	return a.session.RemoveToken(ctx)
}

// CurrentUser fetches the account for the stored token. On any failure,
// 401 or otherwise, the stored token is removed: a credential the server
// will not vouch for cannot be repaired in place.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := a.client.Me(ctx)
	if err != nil {
		_ = a.session.RemoveToken(ctx)
		return nil, err
	}
	return user, nil
}

func (a *authService) IsLoggedIn(ctx context.Context) bool {
	return a.session.IsLoggedIn(ctx)
}

// RequireLogin reports whether a protected operation may proceed. When it
// returns false the caller must skip any further loading; in particular no
// request to a protected endpoint is issued.
func (a *authService) RequireLogin(ctx context.Context) bool {
	return a.session.IsLoggedIn(ctx)
}
